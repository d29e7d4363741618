package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/tomz197/clawmachine/internal/config"
	"github.com/tomz197/clawmachine/internal/loop/client"
	"github.com/tomz197/clawmachine/internal/loop/server"
	"golang.org/x/term"
)

func main() {
	// The terminal belongs to the game, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv(config.EnvLogFile, ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "claw")

	settings, err := config.Load(config.GetEnv(config.EnvConfigPath, ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gameServer := server.NewServer(server.StaticSettings(settings), logger)
	go gameServer.Run(ctx)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	c, err := client.NewClient(gameServer, reader, os.Stdout, client.ClientOptions{
		Username: username(),
	})
	if err == nil {
		err = c.Run()
	}
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
