package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/config"
	"arena-quiz-service/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Quizzes []seedQuiz `yaml:"quizzes"`
}

type seedQuiz struct {
	Name      string         `yaml:"name"`
	Topic     string         `yaml:"topic"`
	Type      domain.Kind    `yaml:"type"`
	Mode      domain.Mode    `yaml:"mode"`
	Creator   string         `yaml:"creator"`
	Code      string         `yaml:"code"`
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Options  []string `yaml:"options"`
}

// NewSeedCmd publishes quizzes from a YAML file.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		file     string
		userID   string
		userName string
		filter   string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Publish quizzes from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			caller := domain.Caller{ID: userID, DisplayName: userName}
			return runSeed(cmd.Context(), cfg, file, caller, filter)
		},
	}
	cmd.Flags().StringVar(&file, "file", "quizzes.yaml", "YAML file with quizzes")
	cmd.Flags().StringVar(&userID, "user-id", "seed", "id of the publishing user")
	cmd.Flags().StringVar(&userName, "user-name", "Seeder", "display name of the publishing user")
	cmd.Flags().StringVar(&filter, "filter", "", "only report public games whose name or topic contains this")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, path string, caller domain.Caller, filter string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	publication := app.NewPublicationService(st.games)
	for _, quiz := range seed.Quizzes {
		authoring, err := quiz.authoring()
		if err != nil {
			return fmt.Errorf("quiz %q: %w", quiz.Name, err)
		}
		if err := authoring.Validate(); err != nil {
			return fmt.Errorf("quiz %q: %w", quiz.Name, err)
		}
		published, err := publication.Publish(ctx, caller, authoring.Draft())
		if err != nil {
			return fmt.Errorf("quiz %q: %w", quiz.Name, err)
		}
		log.Printf("published %q with join code %s", quiz.Name, published.JoinCode)
	}

	games, err := app.NewDiscoveryService(st.finder, st.topics).ListPublic(ctx, caller)
	if err != nil {
		return err
	}
	for _, g := range domain.FilterSummaries(games, filter) {
		fmt.Printf("%s\t%s\t%s\t%s\n", g.ID, g.Name, g.Topic, g.Creator)
	}
	return nil
}

// authoring replays the quiz through the same edits the authoring form makes.
func (q seedQuiz) authoring() (domain.Authoring, error) {
	a := domain.NewAuthoring(domain.AuthoringMeta{
		GameName: q.Name,
		Topic:    q.Topic,
		Kind:     q.Type,
		Mode:     q.Mode,
		Creator:  q.Creator,
		JoinCode: q.Code,
	}, len(q.Questions))

	var edits []domain.Edit
	for i, question := range q.Questions {
		edits = append(edits,
			domain.SetPrompt{Index: i, Value: question.Question},
			domain.SetAnswer{Index: i, Value: question.Answer},
		)
		if q.Type != domain.KindMCQ {
			continue
		}
		for j, opt := range question.Options {
			edits = append(edits,
				domain.AddOption{Index: i},
				domain.SetOption{Index: i, Option: j, Value: opt},
			)
		}
	}

	for _, e := range edits {
		next, err := a.Apply(e)
		if err != nil {
			return a, err
		}
		a = next
	}
	return a, nil
}
