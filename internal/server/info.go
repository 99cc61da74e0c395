package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
)

// Info handles the INFO command: a bulk string of "key:value" lines
// grouped into "# Section" headers, the way stock clients expect to parse
// it.
// Syntax: INFO
func Info(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	if len(cmd) != 1 {
		return errWrongArgs("info")
	}

	var b strings.Builder

	b.WriteString("# Server\r\n")
	fmt.Fprintf(&b, "server_name:%s\r\n", ServerName)
	fmt.Fprintf(&b, "server_version:%s\r\n", Version)
	fmt.Fprintf(&b, "process_id:%d\r\n", os.Getpid())
	fmt.Fprintf(&b, "tcp_port:%d\r\n", s.Config.Port)
	fmt.Fprintf(&b, "uptime_in_seconds:%d\r\n", int64(time.Since(s.StartTime).Seconds()))
	b.WriteString("\r\n")

	b.WriteString("# Clients\r\n")
	fmt.Fprintf(&b, "connected_clients:%d\r\n", s.Clients.Load())
	b.WriteString("\r\n")

	// system memory; skipped when the platform probe fails
	if vm, err := mem.VirtualMemory(); err == nil {
		b.WriteString("# Memory\r\n")
		fmt.Fprintf(&b, "total_system_memory:%d\r\n", vm.Total)
		fmt.Fprintf(&b, "used_system_memory:%d\r\n", vm.Used)
		fmt.Fprintf(&b, "used_system_memory_percent:%.2f\r\n", vm.UsedPercent)
		b.WriteString("\r\n")
	}

	b.WriteString("# Stats\r\n")
	fmt.Fprintf(&b, "total_connections_received:%d\r\n", s.ConnsReceived.Load())
	fmt.Fprintf(&b, "total_commands_processed:%d\r\n", s.Commands.Load())
	fmt.Fprintf(&b, "keyspace_keys:%d\r\n", s.Store.Len())
	fmt.Fprintf(&b, "pubsub_channels:%d\r\n", s.Store.NumChannels())

	return resp.NewBulkValue(bytestr.ByteStr(b.String()))
}
