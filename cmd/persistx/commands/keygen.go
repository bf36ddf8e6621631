package commands

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hengadev/persistx"
)

func keygenCmd(a *app) *cobra.Command {
	var (
		size       int
		passphrase string
		salt       string
		envFormat  bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate or derive an AES key and IV",
		Long: "Print a random key and IV, or derive them from --passphrase with Argon2id.\n" +
			"A derived key is only reproducible with the same salt, so keep the printed salt.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				km       persistx.KeyMaterial
				saltText string
				err      error
			)

			if passphrase == "" {
				km, err = persistx.GenerateKeyMaterial(size)
				if err != nil {
					return err
				}
			} else {
				params := persistx.DefaultArgon2Params()
				params.KeyLength = uint32(size)

				var saltBytes []byte
				if salt != "" {
					saltBytes, err = base64.StdEncoding.DecodeString(salt)
					if err != nil {
						return fmt.Errorf("%w: salt is not valid base64: %w", persistx.ErrKeyFormat, err)
					}
				} else {
					saltBytes, err = persistx.GenerateSalt(params)
					if err != nil {
						return err
					}
				}

				km, err = persistx.DeriveKeyMaterial(passphrase, saltBytes, params)
				if err != nil {
					return err
				}
				saltText = base64.StdEncoding.EncodeToString(saltBytes)
			}

			a.logger.Debug("key material generated", "size", size, "derived", passphrase != "")

			out := cmd.OutOrStdout()
			if envFormat {
				fmt.Fprintf(out, "%s=%s\n", persistx.EnvKey, km.Key)
				fmt.Fprintf(out, "%s=%s\n", persistx.EnvIV, km.IV)
				return nil
			}

			fmt.Fprintln(out, field("key", km.Key))
			fmt.Fprintln(out, field("iv", km.IV))
			if saltText != "" {
				fmt.Fprintln(out, field("salt", saltText))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", persistx.DefaultKeyLength, "key size in bytes (16, 24 or 32)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "derive the key from this passphrase")
	cmd.Flags().StringVar(&salt, "salt", "", "base64 salt for --passphrase (default: random)")
	cmd.Flags().BoolVar(&envFormat, "env", false, "print as PERSISTX_KEY/PERSISTX_IV assignments")
	return cmd
}
