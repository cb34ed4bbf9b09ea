package cmd

import (
	"flag"

	"github.com/etnz/taxreform/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of trc, whose global flags
// are defined in global.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	for _, c := range commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flagPredictors(fs),
			Args:  argsPredictor(c.Name()),
		}
	}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		flags[f.Name] = flagPredictor(f.Name)
	})
	return flags
}

func flagPredictor(name string) complete.Predictor {
	switch name {
	case "i":
		return predict.Files("*.json")
	case "o":
		return predict.Files("*.xlsx")
	case "tables":
		return predict.Files("*.yaml")
	case "env":
		return predict.Files("*")
	case "f":
		return predict.Set(formats)
	case "log-level":
		return predict.Set{"debug", "info", "warn", "error"}
	default:
		return predict.Something
	}
}

func argsPredictor(command string) complete.Predictor {
	switch command {
	case "batch":
		return predict.Files("*.json")
	case "topic":
		topics, _ := docs.GetAllTopics()
		return predict.Set(append(topics, "*"))
	default:
		return predict.Nothing
	}
}
