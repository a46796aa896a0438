package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/mbsym/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("declared", slog.String("name", "L"), slog.String("type", "real"))
	logger.Debug("hidden below the default level")

	// Output:
	// level=INFO msg=declared name=L type=real
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	).With(slog.String("source", "beam.yaml"))

	logger.Trace("resolve", slog.String("name", "area"))

	// Output:
	// level=TRACE msg=resolve source=beam.yaml name=area
}

func ExampleMake_json() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout("none"))
	logger.Warn("constant reassigned", slog.String("name", "g"))

	// Output:
	// {"level":"WARN","msg":"constant reassigned","name":"g"}
}
