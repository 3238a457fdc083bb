package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netscope/internal/domain"
)

const briefAddr = `lo               UNKNOWN        127.0.0.1/8 ::1/128
eth0             UP             172.20.11.89/20 fe80::215:5dff:fe12:3456/64
docker0          DOWN           172.17.0.1/16
bogus
`

const briefLink = `lo               UNKNOWN        00:00:00:00:00:00 <LOOPBACK,UP,LOWER_UP>
eth0             UP             00:15:5D:12:34:56 <BROADCAST,MULTICAST,UP,LOWER_UP>
sit0@NONE        DOWN           0.0.0.0 <NOARP>
`

func TestParseInterfaceLine(t *testing.T) {
	tests := []struct {
		line     string
		ok       bool
		up       bool
		loopback bool
	}{
		{"eth0 UP 10.0.0.5/24", true, true, false},
		{"eth1 DOWN", true, false, false},
		{"lo UNKNOWN 127.0.0.1/8", true, false, true},
		{"lo0 UP", true, true, true},
		{"wlan0 up", true, false, false},
		{"eth0", false, false, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			iface, ok := ParseInterfaceLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.up, iface.IsUp)
			assert.Equal(t, tt.loopback, iface.IsLoopback)
		})
	}
}

func TestParseBriefAddr(t *testing.T) {
	ifaces := ParseBriefAddr(briefAddr)
	require.Len(t, ifaces, 3)

	assert.Equal(t, "lo", ifaces[0].Name)
	assert.Equal(t, []string{"127.0.0.1"}, ifaces[0].IPv4)
	assert.Equal(t, []string{"::1"}, ifaces[0].IPv6)

	assert.Equal(t, "eth0", ifaces[1].Name)
	assert.True(t, ifaces[1].IsUp)
	assert.Equal(t, []string{"172.20.11.89"}, ifaces[1].IPv4)
	assert.Equal(t, []string{"fe80::215:5dff:fe12:3456"}, ifaces[1].IPv6)

	assert.False(t, ifaces[2].IsUp)
	assert.Empty(t, ifaces[2].IPv6)
}

func TestParseBriefAddrIsDeterministic(t *testing.T) {
	assert.Equal(t, ParseBriefAddr(briefAddr), ParseBriefAddr(briefAddr))
}

func TestParseBriefLinkAndMerge(t *testing.T) {
	links := ParseBriefLink(briefLink)
	require.Len(t, links, 3)
	assert.Equal(t, "00:15:5d:12:34:56", links[1].MAC)
	assert.Empty(t, links[2].MAC)

	merged := MergeBriefLinks(ParseBriefAddr(briefAddr), links)
	require.Len(t, merged, 3)
	assert.Equal(t, "00:00:00:00:00:00", merged[0].MAC)
	assert.Equal(t, "00:15:5d:12:34:56", merged[1].MAC)
	assert.Empty(t, merged[2].MAC)
}

func TestParseSSListening(t *testing.T) {
	out := `Netid State  Recv-Q Send-Q Local Address:Port  Peer Address:Port Process
tcp   LISTEN 0      4096   127.0.0.53%lo:53    0.0.0.0:*     users:(("systemd-resolve",pid=123,fd=14))
tcp   LISTEN 0      128    0.0.0.0:8080        0.0.0.0:*     users:(("docker-proxy",pid=1234,fd=5),("docker-proxy",pid=1234,fd=6))
udp   UNCONN 0      0      0.0.0.0:68          0.0.0.0:*
tcp   LISTEN 0      128    [::]:22             [::]:*
tcp   LISTEN
tcp   LISTEN 0      128    0.0.0.0:http        0.0.0.0:*
`
	ports := ParseSSListening(out)
	require.Len(t, ports, 4)

	assert.Equal(t, domain.PortBinding{
		ProcessID:   "123",
		ProcessName: "systemd-resolve",
		Protocol:    "TCP",
		Port:        "53",
		State:       "LISTEN",
		Address:     "127.0.0.53%lo:53",
	}, ports[0])

	assert.Equal(t, "docker-proxy", ports[1].ProcessName)
	assert.Equal(t, "1234", ports[1].ProcessID)

	assert.Equal(t, "UDP", ports[2].Protocol)
	assert.Equal(t, "UNCONN", ports[2].State)
	assert.Equal(t, domain.NotAvailable, ports[2].ProcessName)
	assert.Equal(t, domain.NotAvailable, ports[2].ProcessID)

	assert.Equal(t, "22", ports[3].Port)
	assert.Equal(t, "[::]:22", ports[3].Address)
}

func TestParseSSListeningDropsShortLines(t *testing.T) {
	out := "tcp LISTEN 0\ntcp LISTEN 0 128 0.0.0.0:22 0.0.0.0:*\n"
	ports := ParseSSListening(out)
	require.Len(t, ports, 1)
	assert.Equal(t, "22", ports[0].Port)
}

func TestParseNetstatLinux(t *testing.T) {
	out := `Active Internet connections (only servers)
Proto Recv-Q Send-Q Local Address           Foreign Address         State       PID/Program name
tcp        0      0 0.0.0.0:22              0.0.0.0:*               LISTEN      812/sshd
tcp6       0      0 :::22                   :::*                    LISTEN      812/sshd: /usr/sbin
udp        0      0 0.0.0.0:68              0.0.0.0:*                           650/dhclient
udp        0      0 0.0.0.0:5353            0.0.0.0:*                           -
tcp        0      0 0.0.0.0:abc             0.0.0.0:*               LISTEN      -
`
	ports := ParseNetstatLinux(out)
	require.Len(t, ports, 4)

	assert.Equal(t, "812", ports[0].ProcessID)
	assert.Equal(t, "sshd", ports[0].ProcessName)
	assert.Equal(t, "LISTEN", ports[0].State)

	assert.Equal(t, "TCP", ports[1].Protocol)
	assert.Equal(t, ":::22", ports[1].Address)
	assert.Equal(t, "sshd: /usr/sbin", ports[1].ProcessName)

	assert.Equal(t, "UDP", ports[2].Protocol)
	assert.Equal(t, "", ports[2].State)
	assert.Equal(t, "dhclient", ports[2].ProcessName)

	assert.Equal(t, domain.NotAvailable, ports[3].ProcessID)
}

func TestParseSSExtended(t *testing.T) {
	out := `tcp LISTEN 0 128 0.0.0.0:22 0.0.0.0:* users:(("sshd",pid=812,fd=3)) ino:24567 sk:1 cgroup:/system.slice/ssh.service <->
tcp LISTEN 0 511 0.0.0.0:80 0.0.0.0:* uid:33 ino:31337 sk:2 <->
tcp LISTEN 0 511 0.0.0.0:81 0.0.0.0:* ino:0 sk:3 <->
`
	sockets := ParseSSExtended(out)
	require.Len(t, sockets, 3)
	assert.Equal(t, SocketInfo{Protocol: "TCP", Address: "0.0.0.0:22", Port: "22", PID: "812", Name: "sshd", Inode: "24567"}, sockets[0])
	assert.Equal(t, SocketInfo{Protocol: "TCP", Address: "0.0.0.0:80", Port: "80", Inode: "31337"}, sockets[1])
	assert.Empty(t, sockets[2].Inode)
}

func TestParseFDLinks(t *testing.T) {
	assert.Equal(t, "812", ParseFDLinks("find: '/proc/1/fd': Permission denied\n/proc/812/fd/3\n/proc/813/fd/4\n"))
	assert.Equal(t, "", ParseFDLinks(""))
	assert.Equal(t, "nginx", ParseComm("nginx\n"))
}

func TestParseIPRoute(t *testing.T) {
	out := `default via 172.20.0.1 dev eth0 proto kernel metric 100
172.20.0.0/20 dev eth0 proto kernel scope link src 172.20.11.89
unreachable 10.99.0.0/16 metric 50
`
	routes := ParseIPRoute(out)
	require.Len(t, routes, 3)
	assert.Equal(t, domain.Route{Destination: "default", Gateway: "172.20.0.1", Interface: "eth0", Metric: "100"}, routes[0])
	assert.Equal(t, domain.Route{Destination: "172.20.0.0/20", Gateway: "On-link", Interface: "eth0"}, routes[1])
	assert.Equal(t, "10.99.0.0/16", routes[2].Destination)
	assert.Equal(t, "50", routes[2].Metric)
}

func TestParseRouteTable(t *testing.T) {
	out := `Kernel IP routing table
Destination     Gateway         Genmask         Flags Metric Ref    Use Iface
0.0.0.0         172.20.0.1      0.0.0.0         UG    100    0        0 eth0
172.20.0.0      0.0.0.0         255.255.240.0   U     0      0        0 eth0
`
	routes := ParseRouteTable(out)
	require.Len(t, routes, 2)
	assert.Equal(t, domain.Route{Destination: "0.0.0.0/0", Gateway: "172.20.0.1", Interface: "eth0", Metric: "100"}, routes[0])
	assert.Equal(t, "172.20.0.0/20", routes[1].Destination)
}

func TestParseIptables(t *testing.T) {
	out := `Chain INPUT (policy ACCEPT 0 packets, 0 bytes)
num   pkts bytes target     prot opt in     out     source               destination
1        0     0 ACCEPT     tcp  --  *      *       0.0.0.0/0            0.0.0.0/0            tcp dpt:22
2       10   600 DROP       all  --  *      *       10.0.0.0/8           0.0.0.0/0

Chain FORWARD (policy DROP 0 packets, 0 bytes)
num   pkts bytes target     prot opt in     out     source               destination

Chain OUTPUT (policy ACCEPT 0 packets, 0 bytes)
num   pkts bytes target     prot in     out     source               destination
1        0     0 REJECT     udp  *      *       192.168.1.5          8.8.8.8
`
	rules := ParseIptables(out)
	require.Len(t, rules, 3)

	assert.Equal(t, domain.FirewallRule{
		Name:          "INPUT #1 tcp dpt:22",
		Enabled:       "Yes",
		Direction:     "In",
		Action:        "ACCEPT",
		Protocol:      "tcp",
		LocalAddress:  "0.0.0.0/0",
		RemoteAddress: "0.0.0.0/0",
	}, rules[0])
	assert.Equal(t, "10.0.0.0/8", rules[1].RemoteAddress)

	assert.Equal(t, "Out", rules[2].Direction)
	assert.Equal(t, "REJECT", rules[2].Action)
	assert.Equal(t, "192.168.1.5", rules[2].LocalAddress)
	assert.Equal(t, "8.8.8.8", rules[2].RemoteAddress)
}

func TestParseIptablesBlankTarget(t *testing.T) {
	out := `Chain DOCKER-USER (1 references)
num   pkts bytes target     prot opt in     out     source               destination
1      120  9600            all  --  *      *       172.17.0.0/16        0.0.0.0/0
2     4521  312K RETURN     all  --  *      *       0.0.0.0/0            0.0.0.0/0

Chain ACCOUNTING (0 references)
num   pkts bytes target     prot in     out     source               destination
1        5   300            tcp  *      *       0.0.0.0/0            10.0.0.1             tcp dpt:443
2       12   840 ACCEPT     udp  *      *       0.0.0.0/0            0.0.0.0/0
`
	rules := ParseIptables(out)
	require.Len(t, rules, 4)

	assert.Equal(t, domain.FirewallRule{
		Name:          "DOCKER-USER #1",
		Enabled:       "Yes",
		Direction:     "DOCKER-USER",
		Action:        "",
		Protocol:      "all",
		LocalAddress:  "172.17.0.0/16",
		RemoteAddress: "0.0.0.0/0",
	}, rules[0])
	assert.Equal(t, "RETURN", rules[1].Action)
	assert.Equal(t, "all", rules[1].Protocol)

	assert.Equal(t, "ACCOUNTING #1 tcp dpt:443", rules[2].Name)
	assert.Empty(t, rules[2].Action)
	assert.Equal(t, "tcp", rules[2].Protocol)
	assert.Equal(t, "10.0.0.1", rules[2].RemoteAddress)
	assert.Equal(t, "ACCEPT", rules[3].Action)
	assert.Equal(t, "udp", rules[3].Protocol)
}
