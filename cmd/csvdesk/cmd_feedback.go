package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csvdesk/internal/api"
	"csvdesk/internal/flow"
)

func newFeedbackCmd(st *rootState) *cobra.Command {
	var form api.Feedback
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback about the uploaded data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			fb := flow.NewFeedback(a.client)
			fb.SetForm(form)
			err = fb.Submit(cmd.Context())
			msg, _ := fb.Message()
			if err != nil {
				return flowError(err, msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Purpose, "purpose", "", "what the data is used for")
	f.StringVar(&form.Stakeholders, "stakeholders", "", "who relies on the data")
	f.StringVar(&form.IncorrectFields, "incorrect-fields", "", "fields that look wrong")
	f.StringVar(&form.Terminology, "terminology", "", "domain terms worth knowing")
	f.StringVar(&form.AdditionalContext, "additional-context", "", "anything else")
	return cmd
}
