package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors shared by every backend.
var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrNotFound      = errors.New("storage: file not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrUploadFailed  = errors.New("storage: upload failed")
	ErrDeleteFailed  = errors.New("storage: delete failed")
	ErrPresignFailed = errors.New("storage: presign failed")
)

var s3ErrorCodes = map[string]error{
	"NoSuchKey":    ErrNotFound,
	"NotFound":     ErrNotFound,
	"AccessDenied": ErrAccessDenied,
	"Forbidden":    ErrAccessDenied,
}

// wrapS3Error classifies an S3 failure. Unknown codes fall back to op.
// The SDK error survives as text only.
func wrapS3Error(err, op error) error {
	sentinel := op
	var apiErr smithy.APIError
	var noSuchKey *types.NoSuchKey
	switch {
	case errors.As(err, &noSuchKey):
		sentinel = ErrNotFound
	case errors.As(err, &apiErr):
		if known, ok := s3ErrorCodes[apiErr.ErrorCode()]; ok {
			sentinel = known
		}
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
