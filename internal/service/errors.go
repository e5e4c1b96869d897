package service

import "errors"

var (
	ErrValue             = errors.New("one of the field values given is invalid")
	ErrAlreadyExists     = errors.New("a post with this slug already exists")
	ErrNotFound          = errors.New("nothing with this path exists or you do not have access to it")
	ErrPasswordIncorrect = errors.New("the given password is invalid")
	ErrNotAllowed        = errors.New("you are not allowed to do this")
	ErrOther             = errors.New("an unspecified error has occured")
)
