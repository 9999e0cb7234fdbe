package hetzner

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// isQuotaExceeded checks if an error indicates an account resource limit.
// These errors are terminal; retrying cannot help until the user frees or
// raises quota.
func isQuotaExceeded(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeResourceLimitExceeded)
}

// isUnauthorized checks if an error indicates a bad or missing API token.
func isUnauthorized(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeUnauthorized)
}

// isNotFound checks if an error indicates a missing resource.
func isNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

// isInvalidParameter checks if an error indicates invalid request input.
// These errors are fatal and should not be retried.
func isInvalidParameter(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeNotFound,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeInvalidServerType,
	)
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of
// the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}
