package services

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrAssetInUse   = errors.New("asset has transactions")
)
