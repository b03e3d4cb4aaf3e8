package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// memberFlags holds the editable member fields shared by add and update.
type memberFlags struct {
	name       string
	gender     string
	birthOrder int
	birthYear  int
	deathYear  int
	hometown   string
	bio        string
	photo      string
	parent     string
	mother     string
	spouses    []string
	familyID   string
}

func (m *memberFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&m.name, "name", "", "member name")
	fs.StringVar(&m.gender, "gender", "", "male or female")
	fs.IntVar(&m.birthOrder, "birth-order", 0, "position among siblings, 1 is the eldest")
	fs.IntVar(&m.birthYear, "birth-year", 0, "year of birth")
	fs.IntVar(&m.deathYear, "death-year", 0, "year of death")
	fs.StringVar(&m.hometown, "hometown", "", "hometown")
	fs.StringVar(&m.bio, "bio", "", "short biography")
	fs.StringVar(&m.photo, "photo", "", "photo URL (see 'jiapu upload')")
	fs.StringVar(&m.parent, "parent", "", "father's id, \"\" to clear")
	fs.StringVar(&m.mother, "mother", "", "mother's id, \"\" to clear")
	fs.StringSliceVar(&m.spouses, "spouse", nil, "spouse id, repeatable; \"\" clears all spouses")
	fs.StringVar(&m.familyID, "family", "", "family id, used to refresh the local cache")
}

// input builds a MemberInput from the flags the user actually set.
func (m *memberFlags) input(fs *pflag.FlagSet) (api.MemberInput, bool, error) {
	var in api.MemberInput
	set := false
	if fs.Changed("name") {
		in.Name, set = &m.name, true
	}
	if fs.Changed("gender") {
		g := family.Gender(strings.ToLower(m.gender))
		if g != family.Male && g != family.Female {
			return in, false, errors.New(errors.ErrCodeInvalidInput, "gender must be male or female, got %q", m.gender)
		}
		in.Gender, set = &g, true
	}
	if fs.Changed("birth-order") {
		in.BirthOrder, set = &m.birthOrder, true
	}
	if fs.Changed("birth-year") {
		in.BirthYear, set = &m.birthYear, true
	}
	if fs.Changed("death-year") {
		in.DeathYear, set = &m.deathYear, true
	}
	if fs.Changed("hometown") {
		in.Hometown, set = &m.hometown, true
	}
	if fs.Changed("bio") {
		in.Bio, set = &m.bio, true
	}
	if fs.Changed("photo") {
		in.Photo, set = &m.photo, true
	}
	if fs.Changed("parent") {
		in.ParentID, set = api.Link(parseRef(m.parent)), true
	}
	if fs.Changed("mother") {
		in.MotherID, set = api.Link(parseRef(m.mother)), true
	}
	if fs.Changed("spouse") {
		var refs []family.Ref
		for _, s := range m.spouses {
			if r := parseRef(s); !r.IsZero() {
				refs = append(refs, r)
			}
		}
		in.SpouseIDs, set = api.Links(refs...), true
	}
	return in, set, nil
}

// parseRef reads a member id typed by the user. Plain integers are local
// ids; anything else is a server id.
func parseRef(s string) family.Ref {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return family.IntRef(n)
	}
	return family.StringRef(s)
}

// memberCommand creates the member command.
func (c *CLI) memberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Add, edit and remove family members",
	}

	cmd.AddCommand(c.memberAddCommand())
	cmd.AddCommand(c.memberUpdateCommand())
	cmd.AddCommand(c.memberDeleteCommand())

	return cmd
}

func (c *CLI) memberAddCommand() *cobra.Command {
	var flags memberFlags
	cmd := &cobra.Command{
		Use:   "add <generation-id>",
		Short: "Add a member to a generation",
		Args:  cobra.ExactArgs(1),
		Example: `  jiapu member add 12 --name 王一 --gender male --birth-year 1922 --parent 1
  jiapu member add 12 --name 赵氏 --gender female --spouse 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _, err := flags.input(cmd.Flags())
			if err != nil {
				return err
			}
			if in.Name == nil {
				return errors.New(errors.ErrCodeInvalidInput, "--name is required")
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			m, err := client.AddMember(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			if flags.familyID != "" {
				c.invalidate(cmd.Context(), flags.familyID)
			}
			printSuccess("Added %s", m.Name)
			printKeyValue("ID", m.Key())
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (c *CLI) memberUpdateCommand() *cobra.Command {
	var flags memberFlags
	cmd := &cobra.Command{
		Use:   "update <member-id>",
		Short: "Edit a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, set, err := flags.input(cmd.Flags())
			if err != nil {
				return err
			}
			if !set {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to update")
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.UpdateMember(cmd.Context(), args[0], in); err != nil {
				return err
			}
			if flags.familyID != "" {
				c.invalidate(cmd.Context(), flags.familyID)
			}
			printSuccess("Updated member %s", args[0])
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (c *CLI) memberDeleteCommand() *cobra.Command {
	var (
		yes      bool
		familyID string
	)
	cmd := &cobra.Command{
		Use:   "delete <member-id>",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "refusing to delete member %s without --yes", args[0])
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteMember(cmd.Context(), args[0]); err != nil {
				return err
			}
			if familyID != "" {
				c.invalidate(cmd.Context(), familyID)
			}
			printSuccess("Deleted member %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	cmd.Flags().StringVar(&familyID, "family", "", "family id, used to refresh the local cache")
	return cmd
}
