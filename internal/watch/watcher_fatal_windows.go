// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes after which ReadDirectoryChangesW cannot recover.
const (
	errnoTooManyOpenFiles = syscall.Errno(4) // ERROR_TOO_MANY_OPEN_FILES
	errnoInvalidHandle    = syscall.Errno(6) // ERROR_INVALID_HANDLE, directory removed
	errnoNotEnoughMemory  = syscall.Errno(8) // ERROR_NOT_ENOUGH_MEMORY
)

// isFatalFsnotifyError reports handle exhaustion, an invalidated directory
// handle or a failed notification buffer allocation.
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, errnoTooManyOpenFiles) ||
		errors.Is(err, errnoInvalidHandle) ||
		errors.Is(err, errnoNotEnoughMemory)
}
