package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mehmetcc/nursery/internal/adminclient"
	"github.com/mehmetcc/nursery/internal/content"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var apiURL string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Interactive editor for the nursery project catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				var err error
				if logger, err = zap.NewDevelopment(); err != nil {
					return errors.Wrap(err, "failed to initialize logger")
				}
			}
			client, err := adminclient.New(apiURL, logger)
			if err != nil {
				return err
			}
			return (&editor{client: client}).run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", envOr("NURSERY_API_URL", "http://localhost:5001"), "base URL of the nursery API")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log requests and state changes")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var errQuit = errors.New("quit")

type editor struct {
	client *adminclient.Client
}

func (e *editor) run(ctx context.Context) error {
	fmt.Println("Checking session...")
	e.client.Start(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}

		var err error
		switch e.client.Screen() {
		case adminclient.ScreenLogin:
			err = e.loginScreen(ctx)
		case adminclient.ScreenEditor:
			err = e.editorScreen(ctx)
		default:
			e.client.Start(ctx)
		}

		switch {
		case errors.Is(err, errQuit), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			return nil
		case errors.Is(err, adminclient.ErrSessionEnded):
			fmt.Println("Your session has ended. Please log in again.")
		case err != nil:
			fmt.Println("Error:", err)
		}
	}
}

func (e *editor) loginScreen(ctx context.Context) error {
	prompt := promptui.Prompt{
		Label: "Admin password",
		Mask:  '•',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("password is required")
			}
			return nil
		},
	}
	password, err := prompt.Run()
	if err != nil {
		return err
	}

	if err := e.client.Login(ctx, password); err != nil {
		if errors.Is(err, adminclient.ErrInvalidCredentials) {
			fmt.Println("Invalid password.")
			return nil
		}
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

const (
	actionAdd    = "Add project"
	actionEdit   = "Edit project"
	actionReload = "Reload projects"
	actionLogout = "Logout"
	actionQuit   = "Quit"
)

func (e *editor) editorScreen(ctx context.Context) error {
	projects := e.client.Projects()
	fmt.Printf("\n%d project(s)\n", len(projects))
	for _, p := range projects {
		fmt.Printf("  - %s (%s, %s)\n", p.Name, p.Location, p.Category)
	}

	sel := promptui.Select{
		Label: "Action",
		Items: []string{actionAdd, actionEdit, actionReload, actionLogout, actionQuit},
	}
	_, action, err := sel.Run()
	if err != nil {
		return err
	}

	switch action {
	case actionAdd:
		in, err := projectForm(content.Project{})
		if err != nil {
			return err
		}
		p, err := e.client.CreateProject(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Created %q.\n", p.Name)
	case actionEdit:
		if len(projects) == 0 {
			fmt.Println("No projects to edit.")
			return nil
		}
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name + " (" + p.Location + ")"
		}
		idx, _, err := (&promptui.Select{Label: "Project", Items: names}).Run()
		if err != nil {
			return err
		}
		in, err := projectForm(projects[idx])
		if err != nil {
			return err
		}
		p, err := e.client.UpdateProject(ctx, projects[idx].ID.String(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %q.\n", p.Name)
	case actionReload:
		return e.client.LoadProjects(ctx)
	case actionLogout:
		if err := e.client.Logout(ctx); err != nil {
			fmt.Println("Logout request failed, local session cleared:", err)
		} else {
			fmt.Println("Logged out.")
		}
	case actionQuit:
		return errQuit
	}
	return nil
}

func required(label string) func(string) error {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

// projectForm prompts for every writable field, prefilled from p.
func projectForm(p content.Project) (adminclient.ProjectInput, error) {
	var in adminclient.ProjectInput
	fields := []struct {
		label    string
		def      string
		dst      *string
		validate promptui.ValidateFunc
	}{
		{"Name", p.Name, &in.Name, required("name")},
		{"Location", p.Location, &in.Location, required("location")},
		{"Category", p.Category, &in.Category, required("category")},
		{"Description", p.Description, &in.Description, nil},
		{"Image URL", p.Image, &in.Image, nil},
	}
	for _, f := range fields {
		v, err := (&promptui.Prompt{Label: f.label, Default: f.def, AllowEdit: true, Validate: f.validate}).Run()
		if err != nil {
			return in, err
		}
		*f.dst = strings.TrimSpace(v)
	}

	species, err := (&promptui.Prompt{
		Label:     "Plant species (comma separated)",
		Default:   strings.Join(p.PlantSpecies, ", "),
		AllowEdit: true,
	}).Run()
	if err != nil {
		return in, err
	}
	in.PlantSpecies = adminclient.SplitSpecies(species)

	_, err = (&promptui.Prompt{Label: "Featured", IsConfirm: true, Default: boolDefault(p.Featured)}).Run()
	switch {
	case err == nil:
		in.Featured = true
	case errors.Is(err, promptui.ErrAbort):
		in.Featured = false
	default:
		return in, err
	}
	return in, nil
}

func boolDefault(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
