package server

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"canvas-portal/internal/logger"
	"canvas-portal/internal/utils"
)

type ListenAddr struct {
	Network string
	Address string
}

/**
 * Parse a configured listen address
 * @param {string} address - "host:port", or "unix:/path/to/socket"
 * @returns {ListenAddr} Network and address for net.Listen
 * @returns {error} Error when a unix socket is requested on a system without support
 */
func ParseListenAddr(address string) (ListenAddr, error) {
	if path, ok := strings.CutPrefix(address, "unix:"); ok {
		if !IsUnixSocketSupported() {
			return ListenAddr{}, fmt.Errorf("unix socket %s: not supported on this system", path)
		}
		return ListenAddr{Network: "unix", Address: path}, nil
	}
	return ListenAddr{Network: "tcp", Address: address}, nil
}

/**
 * Test if the system supports Unix socket network type
 * @returns {bool} Returns true if Unix socket is supported, false otherwise
 * @description
 * - Creates a temporary Unix socket to test system support
 * - Cleans up test socket file after testing
 * - Returns false if Unix socket creation fails
 * - Returns true if Unix socket creation succeeds
 * @example
 * supported := IsUnixSocketSupported()
 * if !supported {
 *     logger.Info("Unix socket is not supported on this system")
 * }
 */
func IsUnixSocketSupported() bool {
	if runtime.GOOS != "windows" { //window,linux,darwin
		return true
	}
	// 尝试创建一个临时的Unix socket来测试系统是否支持
	testSocketPath := filepath.Join(os.TempDir(), "test_unix_socket.sock")
	// 清理可能存在的测试socket文件
	os.Remove(testSocketPath)

	// 尝试创建Unix socket监听器
	listener, err := net.Listen("unix", testSocketPath)
	if err != nil {
		// 如果创建失败，说明系统不支持Unix socket
		return false
	}

	// 如果创建成功，关闭监听器并清理文件
	listener.Close()
	os.Remove(testSocketPath)
	return true
}

/**
 * Create TCP and Unix socket listeners for cross-platform support
 * @param {[]ListenAddr} addrs - Listener Address
 * @returns {[]net.Listener} Array of created listeners
 * @returns {error} Error if listener creation fails
 * @description
 * - TCP addresses already accepting connections are skipped
 * - Existing socket files are removed before a Unix listener is created
 * - Failing addresses are logged and skipped; the last error is returned
 * @throws
 * - TCP listener creation errors
 * - Unix socket listener creation errors
 */
func CreateListeners(addrs []ListenAddr) ([]net.Listener, error) {
	var listeners []net.Listener

	var lastErr error
	for _, addr := range addrs {
		if addr.Network == "tcp" && !utils.CheckAddressAvailable(addr.Address) {
			lastErr = fmt.Errorf("address %s is already in use", addr.Address)
			logger.Errorf("Failed to create listener on %s://%s: address in use", addr.Network, addr.Address)
			continue
		}
		if addr.Network == "unix" {
			if err := os.Remove(addr.Address); err != nil && !os.IsNotExist(err) {
				logger.Errorf("Failed to remove existing socket file: %v", err)
				continue
			}
		}
		tcpListener, err := net.Listen(addr.Network, addr.Address)
		if err != nil {
			logger.Errorf("Failed to create listener on %s://%s: %v", addr.Network, addr.Address, err)
			lastErr = err
			continue
		}
		listeners = append(listeners, tcpListener)
	}
	return listeners, lastErr
}
