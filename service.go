package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zimage_power/core"

	"github.com/kardianos/service"
)

// serviceStopTimeout bounds how long Stop waits for serve to return.
const serviceStopTimeout = 45 * time.Second

// program adapts serve to the service manager's Start/Stop lifecycle.
type program struct {
	cancel context.CancelFunc
	exit   chan struct{}
	code   int
}

func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.exit = make(chan struct{})

	go func() {
		defer close(p.exit)
		p.code = serve(ctx, false)
		if p.code != core.ExitCodeSuccess {
			// A failed serve ends the process with its exit code.
			os.Exit(p.code)
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()

	select {
	case <-p.exit:
		return nil
	case <-time.After(serviceStopTimeout):
		return errors.New("timeout waiting for service to stop")
	}
}

// serviceConfig describes the node server to the platform service manager.
// Services start in the executable's directory so relative paths in .env
// resolve the same way as in the foreground.
func serviceConfig() *service.Config {
	cfg := &service.Config{
		Name:        "ZImagePowerNodes",
		DisplayName: "Z-Image Power Nodes",
		Description: "Style catalog, profile store and image saving API for the Z-Image ComfyUI nodes",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
	if exe, err := os.Executable(); err == nil {
		cfg.WorkingDirectory = filepath.Dir(exe)
	}
	return cfg
}

func newService(p *program) (service.Service, error) {
	s, err := service.New(p, serviceConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

// runAsService runs under the service manager when the process was not
// started from a terminal. handled is false for interactive runs.
func runAsService() (handled bool, code int) {
	if service.Interactive() {
		return false, 0
	}

	p := &program{}
	s, err := newService(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return true, core.ExitCodeError
	}
	if err := s.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "service run failed: %v\n", err)
		return true, core.ExitCodeError
	}
	return true, p.code
}

// serviceCommand handles the install/uninstall/start/stop/restart/status
// and help commands.
func serviceCommand(command string) int {
	switch command {
	case "help", "-h", "--help":
		printServiceUsage()
		return core.ExitCodeSuccess
	case "remove":
		command = "uninstall"
	}

	s, err := newService(&program{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return core.ExitCodeError
	}

	if command == "status" {
		status, err := s.Status()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to get service status: %v\n", err)
			return core.ExitCodeError
		}
		fmt.Printf("Service status: %s\n", statusName(status))
		return core.ExitCodeSuccess
	}

	if !isControlAction(command) {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printServiceUsage()
		return core.ExitCodeError
	}
	if err := service.Control(s, command); err != nil {
		fmt.Fprintf(os.Stderr, "failed to %s service: %v\n", command, err)
		return core.ExitCodeError
	}
	fmt.Printf("Service %s succeeded\n", command)
	return core.ExitCodeSuccess
}

func isControlAction(command string) bool {
	for _, action := range service.ControlAction {
		if action == command {
			return true
		}
	}
	return false
}

func statusName(status service.Status) string {
	switch status {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

func printServiceUsage() {
	fmt.Println("Z-Image Power Nodes service management")
	fmt.Println()
	fmt.Println("Usage: zimage-power <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  install    Install the server as a system service")
	fmt.Println("  uninstall  Remove the system service (alias: remove)")
	fmt.Println("  start      Start the service")
	fmt.Println("  stop       Stop the service")
	fmt.Println("  restart    Restart the service")
	fmt.Println("  status     Show the current service status")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Run without arguments to serve in the foreground.")
}
