package model

import "errors"

var (
	ErrInvalidUsername     = errors.New("username must be 1-50 characters, alphanumeric plus underscore/hyphen")
	ErrInvalidPhrase       = errors.New("card phrase must be 1-500 characters")
	ErrInvalidTerm         = errors.New("card term must be 1-200 characters")
	ErrInvalidPoints       = errors.New("card points must be positive")
	ErrInvalidTemplateName = errors.New("template name must be 1-200 characters")
	ErrInvalidCardID       = errors.New("template references an empty card id")
)
