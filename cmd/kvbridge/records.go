/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/suparena/kvbridge"
	"github.com/suparena/kvbridge/model"
)

func combineExamples(lines ...[2]string) string {
	sb := &strings.Builder{}
	for i, ex := range lines {
		fmt.Fprintf(sb, "  # %s\n  %s", ex[0], ex[1])
		if i < len(lines)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected FIELD=VALUE, got %q", s)
	}
	return k, v, nil
}

// parseRecord turns FIELD=VALUE arguments into a record. Values of JSON fields are
// parsed; everything else is left as text for the field's codec.
func parseRecord(a *kvbridge.Adapter, modelName string, pairs []string) (model.Record, error) {
	rec := make(model.Record, len(pairs))
	for _, p := range pairs {
		k, v, err := splitPair(p)
		if err != nil {
			return nil, err
		}
		if t, _ := a.Registry().FieldType(modelName, k); t == model.JSON {
			var parsed any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			rec[k] = parsed
			continue
		}
		rec[k] = v
	}
	return rec, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newCreateCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create MODEL FIELD=VALUE...",
		Short: "Create a record and print its id.",
		Example: combineExamples(
			[2]string{"create a user", "kvbridge create User email=a@x.com age=31 --schema api.yaml"},
		),
		Args: cobra.MinimumNArgs(1),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			rec, err := parseRecord(a, args[0], args[1:])
			if err != nil {
				return err
			}
			id, err := a.Create(cmd.Context(), args[0], rec)
			if id != 0 {
				if werr := writeJSON(cmd, map[string]int64{"id": id}); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		}),
	}
}

func newFindCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find MODEL ID",
		Short: "Print one record, or null.",
		Args:  cobra.ExactArgs(2),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			rec, err := a.Find(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			return writeJSON(cmd, rec)
		}),
	}
}

func newUpdateCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update MODEL ID FIELD=VALUE...",
		Short: "Merge fields into a record.",
		Long:  "Merge fields into a record. Index sets holding the previous values keep the record.",
		Args:  cobra.MinimumNArgs(3),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			patch, err := parseRecord(a, args[0], args[2:])
			if err != nil {
				return err
			}
			return a.UpdateAttributes(cmd.Context(), args[0], id, patch)
		}),
	}
}

func newAllCmd(ap *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all MODEL [FIELD=VALUE...]",
		Short: "Print the records matching every condition.",
		Example: combineExamples(
			[2]string{"every user", "kvbridge all User"},
			[2]string{"editors with a company address", "kvbridge all User role=editor --match 'email=@corp\\.com$'"},
		),
		Args: cobra.MinimumNArgs(1),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			where := model.FieldEquals{}
			for _, p := range args[1:] {
				k, v, err := splitPair(p)
				if err != nil {
					return err
				}
				where[k] = model.Equals(v)
			}
			matches, err := cmd.Flags().GetStringArray("match")
			if err != nil {
				return err
			}
			for _, p := range matches {
				k, v, err := splitPair(p)
				if err != nil {
					return err
				}
				re, err := regexp.Compile(v)
				if err != nil {
					return fmt.Errorf("--match %s: %w", k, err)
				}
				where[k] = model.Matches(re)
			}

			recs, err := a.All(cmd.Context(), args[0], model.Query{Where: where})
			if err != nil {
				return err
			}
			if recs == nil {
				recs = []model.Record{}
			}
			return writeJSON(cmd, recs)
		}),
	}
	cmd.Flags().StringArray("match", nil, "FIELD=REGEX condition, repeatable")
	return cmd
}

func newCountCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count MODEL",
		Short: "Print the number of record keys of a model.",
		Args:  cobra.ExactArgs(1),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			n, err := a.Count(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]int{"count": n})
		}),
	}
}

func newDestroyCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy MODEL ID",
		Short: "Delete a record. Its index entries are kept.",
		Args:  cobra.ExactArgs(2),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.Destroy(cmd.Context(), args[0], id)
		}),
	}
}

func newDestroyAllCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy-all MODEL",
		Short: "Delete every record of a model.",
		Args:  cobra.ExactArgs(1),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			return a.DestroyAll(cmd.Context(), args[0])
		}),
	}
}

func newIndexCmd(ap *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index MODEL FIELD VALUE",
		Short: "Print the record keys in one index set.",
		Args:  cobra.ExactArgs(3),
		RunE: ap.withAdapter(func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error {
			members, err := a.IndexMembers(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if members == nil {
				members = []string{}
			}
			return writeJSON(cmd, members)
		}),
	}
}
