package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/LumeraProtocol/codegen/pkg/utils"
	"github.com/spf13/cobra"
)

// askOneFunc matches survey.AskOne so prompts can be scripted in tests.
type askOneFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

func newInteractiveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for the schedule inputs instead of passing them as arguments",
		Long: `Prompt for the seed (input hidden), epoch length, sub-epoch length and block
bit length, then generate the schedule exactly as the root command does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := promptInputs(survey.AskOne)
			if err != nil {
				return err
			}
			in, err := parseInputs(answers[0], answers[1], answers[2], answers[3])
			if err != nil {
				return err
			}
			return opts.generate(cmd, in)
		},
	}
}

// promptInputs asks for the four generate arguments in order.
func promptInputs(ask askOneFunc) ([4]string, error) {
	var answers [4]string

	seedPrompt := &survey.Password{
		Message: "Enter seed (hex):",
		Help:    "Hexadecimal TRANSEC key material; input is not echoed",
	}
	if err := ask(seedPrompt, &answers[0], survey.WithValidator(survey.Required), survey.WithValidator(validateHex)); err != nil {
		return answers, err
	}

	numeric := []struct {
		message string
		help    string
		def     string
		bits    int
	}{
		{"Epoch length (seconds):", "Total epoch duration", "3600", 64},
		{"Sub-epoch length (seconds):", "Duration of one hop; must be greater than 0", "1", 64},
		{"Block bit length:", "Bits per code block; must be greater than 0", "32", 32},
	}
	for i, q := range numeric {
		prompt := &survey.Input{Message: q.message, Help: q.help, Default: q.def}
		if err := ask(prompt, &answers[i+1], survey.WithValidator(survey.Required), survey.WithValidator(validateUint(q.bits))); err != nil {
			return answers, err
		}
	}
	return answers, nil
}

func validateHex(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return fmt.Errorf("expected text input")
	}
	_, err := utils.ParseHex(s)
	return err
}

func validateUint(bits int) survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected text input")
		}
		if _, err := strconv.ParseUint(s, 10, bits); err != nil {
			return fmt.Errorf("%q is not a non-negative integer", s)
		}
		return nil
	}
}
