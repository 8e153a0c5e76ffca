//go:build !unix

package memory

func hostPageSize() uint32 { return defaultPageSize }
