package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/teamtasks/internal/config"
	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/handler"
	"github.com/mtlprog/teamtasks/internal/service"
	"github.com/urfave/cli/v2"
)

const seedPassword = "password123"

// runSeed creates demo data through the services, so activities, history and
// notifications are produced exactly as they would be over HTTP.
func runSeed(c *cli.Context) error {
	ctx := c.Context

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, c.String("database-url"), env)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := handler.New(db.Pool()).Services()

	// Side-effect failures are logged by the services and do not stop seeding.
	check := func(err error) error {
		if err == nil || service.IsSideEffectFailure(err) {
			return nil
		}
		return err
	}

	people := []service.CreateUserParams{
		{Email: "alice@example.com", Password: seedPassword, FirstName: "Alice", LastName: "Anders"},
		{Email: "bob@example.com", Password: seedPassword, FirstName: "Bob", LastName: "Brandt"},
		{Email: "carol@example.com", Password: seedPassword, FirstName: "Carol", LastName: "Chen"},
	}
	users := make([]*domain.User, len(people))
	for i, p := range people {
		users[i], err = svc.Users.CreateUser(ctx, p)
		if errors.Is(err, domain.ErrEmailTaken) {
			return fmt.Errorf("database already contains demo data: %w", err)
		}
		if err != nil {
			return fmt.Errorf("create user %s: %w", p.Email, err)
		}
	}
	alice, bob, carol := users[0], users[1], users[2]

	team, err := svc.Teams.CreateTeam(ctx, "Platform", "Infrastructure and tooling", alice.ID)
	if err := check(err); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	for _, u := range []*domain.User{bob, carol} {
		_, err := svc.Teams.AddMember(ctx, team.ID, u.ID, domain.TeamRoleMember, alice.ID)
		if err := check(err); err != nil {
			return fmt.Errorf("add member %s: %w", u.Email, err)
		}
	}

	tagIDs := make(map[string]string)
	for _, name := range []string{"backend", "frontend", "urgent"} {
		tag, err := svc.Tags.CreateTag(ctx, name)
		if err != nil && !errors.Is(err, domain.ErrTagExists) {
			return fmt.Errorf("create tag %s: %w", name, err)
		}
		if tag != nil {
			tagIDs[name] = tag.ID
		}
	}

	nextWeek := time.Now().UTC().AddDate(0, 0, 7)
	high := domain.TaskPriorityHigh
	migrate, err := svc.Tasks.CreateTask(ctx, service.CreateTaskParams{
		Title:        "Migrate CI to new runners",
		Description:  "Move all pipelines off the legacy build hosts.",
		Priority:     &high,
		DueDate:      &nextWeek,
		TeamID:       team.ID,
		CreatedByID:  &alice.ID,
		AssignedToID: &bob.ID,
	})
	if err := check(err); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	docs, err := svc.Tasks.CreateTask(ctx, service.CreateTaskParams{
		Title:       "Document on-call rotation",
		TeamID:      team.ID,
		CreatedByID: &carol.ID,
	})
	if err := check(err); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	if id, ok := tagIDs["backend"]; ok {
		if _, err := svc.Tasks.UpdateTaskTags(ctx, migrate.ID, []string{id}); err != nil {
			return fmt.Errorf("tag task: %w", err)
		}
	}

	for _, u := range []*domain.User{alice, carol} {
		_, _, err := svc.Watchers.Subscribe(ctx, migrate.ID, u.ID)
		if err := check(err); err != nil {
			return fmt.Errorf("subscribe %s: %w", u.Email, err)
		}
	}

	inProgress := domain.TaskStatusInProgress
	_, err = svc.Tasks.UpdateTask(ctx, migrate.ID, service.UpdateTaskCommand{Status: &inProgress}, bob.ID)
	if err := check(err); err != nil {
		return fmt.Errorf("start task: %w", err)
	}

	_, err = svc.Comments.CreateComment(ctx, migrate.ID, bob.ID, "First two pipelines are already on the new runners.")
	if err := check(err); err != nil {
		return fmt.Errorf("comment: %w", err)
	}

	slog.Info("demo data created",
		"team_id", team.ID,
		"users", len(users),
		"tasks", []string{migrate.ID, docs.ID},
		"password", seedPassword,
	)
	return nil
}
