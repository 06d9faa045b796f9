package models

import "errors"

var (
	ErrConflictData = errors.New("data conflicts with existing data")
	ErrDataNotFound = errors.New("data not found")
	ErrUserNotFound = errors.New("user not found")
)
