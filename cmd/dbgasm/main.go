// cmd/dbgasm/main.go
package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/viper"

	"dbgasm/internal/apperr"
	"dbgasm/internal/appshell"
	"dbgasm/internal/cli"
)

func main() {
	appshell.Main(run)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	v := viper.New()
	v.SetConfigName("dbgasm")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("DBGASM")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return apperr.ExitCode(apperr.Config)
		}
	}

	root := cli.New(v, stdout, stderr)
	root.SetArgs(argv)
	if err := root.ExecuteContext(ctx); err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return apperr.ExitCode(ae.Kind)
		}
		return apperr.ExitCode(apperr.Io)
	}
	return 0
}
