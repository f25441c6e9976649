package utils

import (
	"net"
	"time"
)

/**
 * Check whether a TCP listen address is free
 * @param {string} address - host:port, an empty host means localhost
 * @returns {bool} False when something already accepts connections there
 */
func CheckAddressAvailable(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return false
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), time.Second)
	if err != nil {
		// 连接失败，说明端口可用
		return true
	}
	conn.Close()
	return false
}
