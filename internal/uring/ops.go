package uring

import "unsafe"

// io_uring opcodes from linux/io_uring.h. Only IORING_OP_STATX is prepared:
// the walker's batch-metadata path (spec §4.3) only ever needs to resolve
// DT_UNKNOWN dirent types in bulk, never open/read/close a file through the
// ring.
const (
	OpStatx = 21
)

// Constants for statx.
const (
	atFdCwd     = -100   // AT_FDCWD
	atEmptyPath = 0x1000 // AT_EMPTY_PATH
	atSymlinkNoFollow = 0x100 // AT_SYMLINK_NOFOLLOW
	statxType   = 0x1    // STATX_TYPE
)

// PrepStatx sets up an SQE for IORING_OP_STATX against a path relative to
// dirfd (AT_FDCWD for an absolute or cwd-relative path).
func (sqe *SQE) PrepStatx(dirfd int32, pathPtr *byte, statxFlags uint32, mask uint32, buf *Statx) {
	*sqe = SQE{} // zero out
	sqe.Opcode = OpStatx
	sqe.Fd = dirfd
	sqe.Addr = uint64(uintptr(unsafe.Pointer(pathPtr)))
	sqe.Len = mask
	sqe.Off = uint64(uintptr(unsafe.Pointer(buf)))
	sqe.OpcodeFlags = statxFlags
}

// ATFdCwd returns AT_FDCWD for use with PrepStatx.
func ATFdCwd() int32 { return atFdCwd }

// ATSymlinkNoFollow returns AT_SYMLINK_NOFOLLOW for use with PrepStatx.
func ATSymlinkNoFollow() uint32 { return atSymlinkNoFollow }

// StatxTypeMask returns STATX_TYPE for use with PrepStatx.
func StatxTypeMask() uint32 { return statxType }
