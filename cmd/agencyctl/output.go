package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"agencyui/internal/domain"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

// toYAMLValue round-trips through JSON so yaml output follows the json tags.
func toYAMLValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeStructured(w io.Writer, value any, format string) error {
	if format == outputJSON {
		return writeJSON(w, value)
	}
	plain, err := toYAMLValue(value)
	if err != nil {
		return err
	}
	return writeYAML(w, plain)
}

func printCatalog(w io.Writer, catalog domain.Catalog, format string) error {
	if format != outputText {
		return writeStructured(w, catalog, format)
	}
	fmt.Fprintf(w, "agents (%d)\n", len(catalog.Agents))
	for _, name := range catalog.Agents {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "tools (%d)\n", len(catalog.Tools))
	for _, name := range catalog.Tools {
		fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}

type createdOutput struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func printCreated(w io.Writer, resp json.RawMessage, format string) error {
	if format != outputText {
		var value any
		if err := json.Unmarshal(resp, &value); err != nil {
			return err
		}
		return writeStructured(w, value, format)
	}
	var created createdOutput
	if err := json.Unmarshal(resp, &created); err != nil || (created.Message == "" && created.ID == "") {
		_, err := fmt.Fprintln(w, string(resp))
		return err
	}
	if created.ID != "" {
		_, err := fmt.Fprintf(w, "%s (id=%s)\n", created.Message, created.ID)
		return err
	}
	_, err := fmt.Fprintln(w, created.Message)
	return err
}

func printAgencies(w io.Writer, agencies []domain.Agency, format string) error {
	if format != outputText {
		if agencies == nil {
			agencies = []domain.Agency{}
		}
		return writeStructured(w, map[string]any{"agencies": agencies}, format)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tITEMS")
	for _, agency := range agencies {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", agency.ID, agency.CreatedAt.Format(time.RFC3339), formatItems(agency.Items))
	}
	return tw.Flush()
}

func printAgency(w io.Writer, agency domain.Agency, format string) error {
	if format != outputText {
		return writeStructured(w, agency, format)
	}
	fmt.Fprintf(w, "id=%s created=%s items=%d\n", agency.ID, agency.CreatedAt.Format(time.RFC3339), len(agency.Items))
	for i, item := range agency.Items {
		fmt.Fprintf(w, "%3d  %-6s %s\n", i+1, item.Kind, item.Name)
	}
	return nil
}

func formatItems(items domain.Composition) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, string(item.Kind)+":"+item.Name)
	}
	return strings.Join(parts, " ")
}
