// Command devhash prints the PHC hash of a developer password, ready to be
// embedded with -ldflags "-X .../migrations.DeveloperPasswordHash=<hash>".
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/cryptox"
	"golang.org/x/term"
)

func main() {
	secret, err := readSecret()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	if secret == "" {
		log.Fatal("empty password")
	}

	hash, err := cryptox.HashPassword([]byte(secret))
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Developer password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
