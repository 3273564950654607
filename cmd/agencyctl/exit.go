package main

import (
	"errors"
	"net/http"

	"agencyui/internal/domain"
	"agencyui/internal/infra/backend"
)

const (
	exitUsage       = 2
	exitUnavailable = 3
	exitNotFound    = 4
)

type exitError struct {
	code    int
	message string
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}

func exitWith(code int, err error) error {
	return exitError{code: code, message: err.Error()}
}

// classify maps backend errors onto process exit codes.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var status *backend.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
		return exitWith(exitNotFound, err)
	}
	if code, ok := domain.CodeFrom(err); ok {
		switch code {
		case domain.CodeInvalidArgument:
			return exitWith(exitUsage, err)
		case domain.CodeUnavailable, domain.CodeFetchFailed, domain.CodeSubmitFailed:
			return exitWith(exitUnavailable, err)
		}
	}
	return err
}
