package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/layout"
)

func newCanonCmd(a *app) *cobra.Command {
	var molblock bool
	cmd := &cobra.Command{
		Use:   "canon SMILES...",
		Short: "Print the canonical SMILES of each argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range args {
				mol, err := chem.ParseSMILES(s)
				if err != nil {
					return err
				}
				canon := mol.SMILES()
				if !molblock {
					fmt.Fprintln(out, canon)
					continue
				}
				layout.Compute2DCoords(mol)
				fmt.Fprint(out, chem.WriteMolBlock(mol, canon))
				fmt.Fprintln(out, "$$$$")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&molblock, "molblock", false, "print an SD record with 2D coordinates instead")
	return cmd
}
