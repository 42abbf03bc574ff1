package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/onboardkit/pkg/crm"
	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
)

// customerFile is the on-disk shape accepted by "customer create --file".
type customerFile struct {
	ID           string                     `json:"id,omitempty" yaml:"id,omitempty"`
	CompanyName  string                     `json:"companyName" yaml:"companyName"`
	ContactName  string                     `json:"contactName,omitempty" yaml:"contactName,omitempty"`
	ContactEmail string                     `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty"`
	TenantID     string                     `json:"tenantId,omitempty" yaml:"tenantId,omitempty"`
	Tier         string                     `json:"tier" yaml:"tier"`
	Language     string                     `json:"language,omitempty" yaml:"language,omitempty"`
	Tenants      []onboarding.TenantRecord  `json:"tenants,omitempty" yaml:"tenants,omitempty"`
	Contacts     []onboarding.ContactRecord `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Notes        string                     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (f customerFile) customer() crm.Customer {
	return crm.Customer{
		ID:           f.ID,
		CompanyName:  f.CompanyName,
		ContactName:  f.ContactName,
		ContactEmail: f.ContactEmail,
		TenantID:     f.TenantID,
		Tier:         f.Tier,
		Language:     f.Language,
		Tenants:      f.Tenants,
		Contacts:     f.Contacts,
		Notes:        f.Notes,
	}
}

// customerOutput adds the ETag, which the record itself never serializes.
type customerOutput struct {
	*crm.Customer
	ETag string `json:"etag"`
}

func newCustomerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customer",
		Aliases: []string{"customers"},
		Short:   "Manage customer records",
	}

	var (
		path, format string
		in           customerFile
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a customer from flags or a JSON/YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path != "" {
				if err := readInput(cmd.InOrStdin(), path, format, &in); err != nil {
					return err
				}
			}
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			c, err := repo.Create(cmd.Context(), in.customer())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), customerOutput{c, c.ETag})
		},
	}
	create.Flags().StringVar(&path, "file", "", "customer file, - for stdin")
	create.Flags().StringVar(&format, "input-format", "", "json|yaml (default from extension)")
	create.Flags().StringVar(&in.CompanyName, "company", "", "company name")
	create.Flags().StringVar(&in.Tier, "tier", "", "support tier key")
	create.Flags().StringVar(&in.ContactName, "contact", "", "primary contact name")
	create.Flags().StringVar(&in.ContactEmail, "email", "", "primary contact email")
	create.Flags().StringVar(&in.TenantID, "tenant-id", "", "Microsoft tenant ID")
	create.Flags().StringVar(&in.Language, "lang", "", "preferred email language")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			c, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), customerOutput{c, c.ETag})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers by company name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			all, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ID, c.Tier, c.CompanyName)
			}
			return nil
		},
	}

	var etag string
	setTier := &cobra.Command{
		Use:   "set-tier <id> <tier>",
		Short: "Move a customer to another tier, truncating tenants and contacts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			c, cmp, err := repo.ChangeTier(cmd.Context(), args[0], args[1], etag)
			if err != nil {
				return err
			}
			if cmp.IsDowngrade() {
				fmt.Fprintf(cmd.ErrOrStderr(), "downgrade from %s to %s\n", cmp.From, cmp.To)
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Customer   customerOutput `json:"customer"`
				Comparison any            `json:"comparison"`
			}{customerOutput{c, c.ETag}, cmp})
		},
	}
	setTier.Flags().StringVar(&etag, "etag", "", "fail unless the record still has this ETag")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			return repo.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(create, get, list, setTier, del)
	return cmd
}
