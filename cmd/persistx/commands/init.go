package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hengadev/persistx"
)

func initCmd(a *app) *cobra.Command {
	var (
		encrypted bool
		force     bool
		keySize   int
		vaultPath string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: "Write a configuration file for the current flags. With --encrypted a fresh key\n" +
			"and IV are generated; with --vault-path they go to Vault instead of the file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("configuration file %s already exists, use --force to overwrite", a.configPath)
			}

			cfg := persistx.DefaultConfig()
			if err := a.applyFlags(&cfg); err != nil {
				return err
			}
			if encrypted {
				cfg.Serializer = persistx.EncryptedText
			}

			if cfg.Serializer == persistx.EncryptedText {
				km, err := persistx.GenerateKeyMaterial(keySize)
				if err != nil {
					return err
				}

				if vaultPath != "" {
					store, err := a.newKeyStore(cmd.Context(), vaultPath)
					if err != nil {
						return err
					}
					exists, err := store.Exists(cmd.Context())
					if err != nil {
						return err
					}
					if exists && !force {
						return fmt.Errorf("vault already holds key material for %s, use --force to replace it", vaultPath)
					}
					if err := store.StoreKeyMaterial(cmd.Context(), km); err != nil {
						return err
					}
					stored, err := store.KeyMaterial(cmd.Context())
					if err != nil {
						return err
					}
					if !stored.Equal(km) {
						return fmt.Errorf("%w: vault returned different key material for %s", persistx.ErrKeyMaterialUnavailable, vaultPath)
					}
					cfg.VaultPath = vaultPath
					fmt.Fprintln(cmd.OutOrStdout(), styleFaint.Render("Key material stored in Vault under "+vaultPath))
				} else {
					cfg.Key, cfg.IV = km.Key, km.IV
				}
			}

			// Vault-backed configs carry no key here, so check those as plain text.
			check := cfg
			if check.Serializer == persistx.EncryptedText && check.KeyMaterial().IsZero() {
				check.Serializer = persistx.PlainText
			}
			if err := check.Validate(); err != nil {
				return err
			}
			cfg.FileExtension = check.FileExtension

			if err := persistx.SaveConfigFile(cfg, a.configPath); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleSuccess.Render("Configuration written to "+a.configPath))
			fmt.Fprintln(out, field("serializer", cfg.Serializer.String()))
			fmt.Fprintln(out, field("directory", cfg.Directory))
			fmt.Fprintln(out, field("extension", cfg.FileExtension))
			if cfg.Key != "" {
				fmt.Fprintln(out, styleWarning.Render("The file contains the encryption key. Keep it out of version control."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&encrypted, "encrypted", false, "use the encrypted serializer and generate key material")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().IntVar(&keySize, "key-size", persistx.DefaultKeyLength, "AES key size in bytes (16, 24 or 32)")
	cmd.Flags().StringVar(&vaultPath, "vault-path", "", "store key material in Vault under this alias")
	return cmd
}
