//go:build !chainmap_opt_enablepadding

package chainmap

type bucketPad struct{}
