package server

import (
	"net"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseListenAddr(t *testing.T) {
	addr, err := ParseListenAddr("127.0.0.1:8080")
	if err != nil || addr != (ListenAddr{Network: "tcp", Address: "127.0.0.1:8080"}) {
		t.Errorf("tcp address = %+v, %v", addr, err)
	}
	if runtime.GOOS == "windows" {
		return
	}
	addr, err = ParseListenAddr("unix:/run/canvas.sock")
	if err != nil || addr != (ListenAddr{Network: "unix", Address: "/run/canvas.sock"}) {
		t.Errorf("unix address = %+v, %v", addr, err)
	}
}

func TestCreateListeners(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	addrs := []ListenAddr{
		{Network: "tcp", Address: "127.0.0.1:0"},
		{Network: "tcp", Address: busy.Addr().String()},
	}
	if runtime.GOOS != "windows" {
		addrs = append(addrs, ListenAddr{Network: "unix", Address: filepath.Join(t.TempDir(), "canvas.sock")})
	}

	listeners, err := CreateListeners(addrs)
	for _, l := range listeners {
		defer l.Close()
	}
	if err == nil {
		t.Error("busy address did not report an error")
	}
	if want := len(addrs) - 1; len(listeners) != want {
		t.Errorf("created %d listeners, want %d", len(listeners), want)
	}
}
