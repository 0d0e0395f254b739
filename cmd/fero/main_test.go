package main

import (
	"testing"

	"github.com/coreos/fero/errortypes"
	dropboxerrors "github.com/dropbox/godropbox/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode_HsmErrorIsTwo(t *testing.T) {
	err := &errortypes.HsmError{DropboxError: dropboxerrors.New("no session")}
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode_InternalErrorIsThree(t *testing.T) {
	err := &errortypes.InternalError{DropboxError: dropboxerrors.New("hash chain broken")}
	assert.Equal(t, 3, exitCode(err))
}

func TestExitCode_OtherErrorsAreOne(t *testing.T) {
	assert.Equal(t, 1, exitCode(&errortypes.ReadError{DropboxError: dropboxerrors.New("bad config")}))
	assert.Equal(t, 1, exitCode(&errortypes.WriteError{DropboxError: dropboxerrors.New("db unreachable")}))
}
