package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sportstore/internal/client/api"
	"github.com/dmitrijs2005/sportstore/internal/client/config"
)

// TokenEnv names the variable holding the access token for protected commands.
const TokenEnv = "SPORTSTORE_TOKEN"

// ErrUsage is returned for unknown subcommands and bad arguments.
var ErrUsage = errors.New("usage error")

const usage = `usage: client [-a server-url] [-t timeout-seconds] [-c config.json] <command> [flags]

commands:
  health                                     server and store status
  register [-name] [-email] [-dob] [-gender] create an account (password is prompted)
  login [-email]                             print an access token (password is prompted)
  update-profile [-token] [-dob] [-gender]   change date of birth and/or gender
  me [-token]                                show the current account
`

// Client is the part of api.Client the commands use.
type Client interface {
	Health(ctx context.Context) (*api.Health, error)
	Register(ctx context.Context, r api.Registration) (*api.Account, error)
	Login(ctx context.Context, email string, password []byte) (*api.LoginResult, error)
	UpdateProfile(ctx context.Context, token string, u api.ProfileUpdate) (*api.Account, error)
	Me(ctx context.Context, token string) (*api.Account, error)
}

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	client Client
	reader *bufio.Reader
	out    io.Writer
	getenv func(string) string
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(client, os.Stdin, os.Stdout), nil
}

func newApp(client Client, in io.Reader, out io.Writer) *App {
	return &App{client: client, reader: bufio.NewReader(in), out: out, getenv: os.Getenv}
}

// Run executes the subcommand named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "health":
		return a.health(ctx)
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "update-profile":
		return a.updateProfile(ctx, rest)
	case "me":
		return a.me(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	return nil
}

// promptIfEmpty asks for a value the user did not pass as a flag.
func (a *App) promptIfEmpty(value *string, prompt string) error {
	if *value != "" {
		return nil
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (a *App) token(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if t := a.getenv(TokenEnv); t != "" {
		return t, nil
	}
	return "", fmt.Errorf("%w: pass -token or set %s", ErrUsage, TokenEnv)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
