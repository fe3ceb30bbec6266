package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/sportstore/internal/client/api"
	"github.com/dmitrijs2005/sportstore/internal/common"
)

func (a *App) health(ctx context.Context) error {
	h, err := a.client.Health(ctx)
	if h != nil {
		if perr := a.print(h); perr != nil {
			return perr
		}
	}
	return err
}

func (a *App) register(ctx context.Context, args []string) error {
	var r api.Registration
	fs := a.newFlagSet("register")
	fs.StringVar(&r.FullName, "name", "", "full name")
	fs.StringVar(&r.Email, "email", "", "email")
	fs.StringVar(&r.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	fs.StringVar(&r.Gender, "gender", "", "male, female or other")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	prompts := []struct {
		value  *string
		prompt string
	}{
		{&r.FullName, "Enter full name"},
		{&r.Email, "Enter email"},
		{&r.DateOfBirth, "Enter date of birth (YYYY-MM-DD)"},
		{&r.Gender, "Enter gender (male, female, other)"},
	}
	for _, p := range prompts {
		if err := a.promptIfEmpty(p.value, p.prompt); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	r.Password = string(password)

	account, err := a.client.Register(ctx, r)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return a.print(account)
}

func (a *App) login(ctx context.Context, args []string) error {
	var email string
	fs := a.newFlagSet("login")
	fs.StringVar(&email, "email", "", "email")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.promptIfEmpty(&email, "Enter email"); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "export %s=%s\n", TokenEnv, res.AccessToken)
	return a.print(res.User)
}

func (a *App) updateProfile(ctx context.Context, args []string) error {
	var token, dob, gender string
	fs := a.newFlagSet("update-profile")
	fs.StringVar(&token, "token", "", "access token")
	fs.StringVar(&dob, "dob", "", "new date of birth (YYYY-MM-DD)")
	fs.StringVar(&gender, "gender", "", "new gender (male, female, other)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	token, err := a.token(token)
	if err != nil {
		return err
	}

	var u api.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dob":
			u.DateOfBirth = &dob
		case "gender":
			u.Gender = &gender
		}
	})

	account, err := a.client.UpdateProfile(ctx, token, u)
	if err != nil {
		return err
	}
	return a.print(account)
}

func (a *App) me(ctx context.Context, args []string) error {
	var token string
	fs := a.newFlagSet("me")
	fs.StringVar(&token, "token", "", "access token")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	token, err := a.token(token)
	if err != nil {
		return err
	}

	account, err := a.client.Me(ctx, token)
	if err != nil {
		return err
	}
	return a.print(account)
}
