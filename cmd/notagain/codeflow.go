package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/notagain-app/notagain-core/federated"
)

// stdinCodeFlow runs the browser dance by hand: the demo prints the
// authorization URL and reads the pasted code from standard input.
type stdinCodeFlow struct{}

var _ federated.CodeFlow = stdinCodeFlow{}

func (stdinCodeFlow) Authorize(_ context.Context, authURL string) (string, error) {
	fmt.Printf("Open %s in a browser and paste the authorization code:\n", authURL)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", errors.New("no authorization code entered")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
