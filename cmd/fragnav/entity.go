package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/fragnav/internal/model"
)

// NewEntityCmd creates the entity command and its subcommands.
func NewEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Manage entities referenced by fragment parameters",
		Long: `Entity stores the objects that entity parameters look up by key.
A product page declaring an entity parameter of type "product" resolves
"#Product/34" to the product stored under key 34.`,
	}

	cmd.AddCommand(newEntityPutCmd())
	cmd.AddCommand(newEntityGetCmd())
	cmd.AddCommand(newEntityListCmd())
	cmd.AddCommand(newEntityDeleteCmd())

	return cmd
}

func newEntityPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <type> <key> [attr=value]...",
		Short: "Store an entity, replacing any entity under the same key",
		Example: `  fragnav entity put product 34 name=Widget price=9.90`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := make(map[string]string, len(args)-2)
			for _, kv := range args[2:] {
				name, value, ok := strings.Cut(kv, "=")
				if !ok || name == "" {
					return fmt.Errorf("attributes must be given as name=value: %q", kv)
				}
				attrs[name] = value
			}

			env, err := entityEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			entity := &model.Entity{Type: args[0], Key: args[1], Attributes: attrs}
			if err := env.store.PutEntity(cmd.Context(), entity); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s %s\n", entity.Type, entity.Key)
			return nil
		},
	}
}

func newEntityGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <key>",
		Short: "Print an entity as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := entityEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			entity, err := env.store.GetEntity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeYAML(cmd, entityDocument(entity))
		},
	}
}

func newEntityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [type]",
		Short: "Print stored entities as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var typeTag string
			if len(args) == 1 {
				typeTag = args[0]
			}

			env, err := entityEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			entities, err := env.store.ListEntities(cmd.Context(), typeTag)
			if err != nil {
				return err
			}

			docs := make([]entityDoc, 0, len(entities))
			for _, e := range entities {
				docs = append(docs, entityDocument(e))
			}
			return writeYAML(cmd, docs)
		},
	}
}

func newEntityDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <key>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := entityEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.store.DeleteEntity(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", args[0], args[1])
			return nil
		},
	}
}

// entityEnvironment opens the database for the entity commands.
func entityEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	return setup(cfg, true)
}

// entityDoc is the YAML form of an entity.
type entityDoc struct {
	Type       string            `yaml:"type"`
	Key        string            `yaml:"key"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
	UpdatedAt  string            `yaml:"updatedAt"`
}

func entityDocument(e *model.Entity) entityDoc {
	return entityDoc{
		Type:       e.Type,
		Key:        e.Key,
		Attributes: e.Attributes,
		UpdatedAt:  e.UpdatedAt.Format("2006-01-02 15:04:05 MST"),
	}
}

// writeYAML encodes v to the command output.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
