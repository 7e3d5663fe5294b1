//go:build !unix

package transport

import "syscall"

func reusePortControl(string, string, syscall.RawConn) error {
	return nil
}
