package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete installs shell completion for the ctax command. It must be
// called before flag parsing; when invoked by the shell's completion
// machinery it prints the candidates and exits.
func Complete() {
	globalFlags := map[string]complete.Predictor{
		"ledger-file": predict.Files("*.jsonl"),
		"prices-db":   predict.Files("*.db"),
		"currency":    predict.Set{"EUR", "USD", "GBP", "CHF"},
	}

	cmd := &complete.Command{
		Flags: globalFlags,
		Sub: map[string]*complete.Command{
			"gains": {Flags: map[string]complete.Predictor{
				"csv": predict.Files("*.csv"),
			}},
			"summary": {Flags: map[string]complete.Predictor{
				"d": predict.Something,
			}},
			"tx": {},
			"missing": {Flags: map[string]complete.Predictor{
				"tolerance": predict.Something,
				"padding":   predict.Something,
				"fetch":     predict.Nothing,
			}},
			"prices": {Flags: map[string]complete.Predictor{
				"import": predict.Files("*.csv"),
				"export": predict.Files("*.csv"),
			}},
			"fmt":   {},
			"topic": {Args: predict.Set{"readme", "accounting", "prices", "operations"}},
		},
	}
	cmd.Complete("ctax")
}
