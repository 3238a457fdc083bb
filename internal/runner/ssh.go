package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// SSHConfig holds connection settings for the SSH bridge
type SSHConfig struct {
	Host        string
	Port        int
	User        string
	KeyPath     string
	Passphrase  string
	Password    string
	DialTimeout time.Duration
}

// SSHBridge runs commands on a remote host, one session per command.
// The connection is established on first use and reused afterwards.
type SSHBridge struct {
	cfg    SSHConfig
	logger zerolog.Logger

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHBridge creates an SSH bridge; no connection is made until Run
func NewSSHBridge(cfg SSHConfig, logger zerolog.Logger) *SSHBridge {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &SSHBridge{
		cfg:    cfg,
		logger: logger.With().Str("component", "runner").Str("runner", "ssh").Str("host", cfg.Host).Logger(),
	}
}

// Run executes cmd in a new session. Connection or session errors are LaunchFailed.
func (b *SSHBridge) Run(ctx context.Context, cmd Command) Outcome {
	client, err := b.getClient(ctx)
	if err != nil {
		return LaunchFailed(err.Error())
	}

	session, err := client.NewSession()
	if err != nil {
		b.reset(client)
		return LaunchFailed(fmt.Sprintf("failed to create session: %v", err))
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	ctx, cancel := context.WithTimeout(ctx, cmd.timeout())
	defer cancel()

	done := make(chan error, 1)
	line := ShellQuote(cmd.Tool, cmd.Args...)
	go func() {
		done <- session.Run(line)
	}()

	select {
	case err := <-done:
		return b.outcome(err, &stdout, &stderr)
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		b.logger.Debug().Str("command", line).Msg("command timeout")
		return TimedOut()
	}
}

func (b *SSHBridge) outcome(err error, stdout, stderr *bytes.Buffer) Outcome {
	out := DecodeOutput(stdout.Bytes())
	errOut := DecodeOutput(stderr.Bytes())
	if err == nil {
		return Success(out, errOut)
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		// 127 is the shell's "command not found"
		if exitErr.ExitStatus() == 127 {
			return LaunchFailed(strings.TrimSpace(errOut))
		}
		return NonZeroExit(exitErr.ExitStatus(), out, errOut)
	}
	var missing *ssh.ExitMissingError
	if errors.As(err, &missing) {
		return NonZeroExit(-1, out, errOut)
	}
	return LaunchFailed(err.Error())
}

// Close closes the underlying connection if one is open
func (b *SSHBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

func (b *SSHBridge) getClient(ctx context.Context) (*ssh.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}
	client, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}
	b.client = client
	return client, nil
}

func (b *SSHBridge) reset(client *ssh.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == client {
		b.client.Close()
		b.client = nil
	}
}

// connect establishes an SSH connection with key or password auth
func (b *SSHBridge) connect(ctx context.Context) (*ssh.Client, error) {
	config, err := b.buildSSHConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := net.JoinHostPort(b.cfg.Host, strconv.Itoa(b.cfg.Port))
	dialer := &net.Dialer{Timeout: b.cfg.DialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	b.logger.Info().Str("addr", addr).Msg("ssh bridge connected")
	return ssh.NewClient(sshConn, chans, reqs), nil
}

func (b *SSHBridge) buildSSHConfig() (*ssh.ClientConfig, error) {
	if b.cfg.User == "" {
		return nil, fmt.Errorf("ssh user not configured")
	}

	var auth []ssh.AuthMethod
	if b.cfg.KeyPath != "" {
		signer, err := loadSigner(b.cfg.KeyPath, b.cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if b.cfg.Password != "" {
		auth = append(auth, ssh.Password(b.cfg.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("no ssh key or password configured")
	}

	return &ssh.ClientConfig{
		User:            b.cfg.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         b.cfg.DialTimeout,
	}, nil
}

func loadSigner(path, passphrase string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

// ShellQuote renders a POSIX shell command line with every word single-quoted
// where needed.
func ShellQuote(tool string, args ...string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, quoteWord(tool))
	for _, a := range args {
		words = append(words, quoteWord(a))
	}
	return strings.Join(words, " ")
}

func quoteWord(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,+@%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
