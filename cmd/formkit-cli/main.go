package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/message"
)

func main() {
	definitions := flag.String("definitions", "", "directory of form definition files (JSON or YAML)")
	formID := flag.String("form", "", "form ID to load from -definitions")
	openapiPath := flag.String("openapi", "", "OpenAPI document to import forms from")
	opID := flag.String("operation", "", "operation ID to load from -openapi (lists operations if empty)")
	importPath := flag.String("import", "", "JSON file with values to import")
	interactive := flag.Bool("prompt", false, "ask for every visible input in the terminal")
	skipHidden := flag.Bool("skip-hidden", false, "leave hidden inputs out of validation and output")
	messages := flag.String("messages", "", "directory of <kind>.tpl error message overrides")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	form, ok := loadForm(ctx, *definitions, *formID, *openapiPath, *opID)
	if !ok {
		return
	}

	var options []formkit.Option
	if *skipHidden {
		options = append(options, formkit.WithSkipHidden())
	}
	if *messages != "" {
		catalog, err := message.New(message.WithFS(os.DirFS(*messages)))
		if err != nil {
			log.Fatalf("Failed to load messages: %v", err)
		}
		options = append(options, formkit.WithCatalog(catalog))
	}

	session, err := formkit.NewSession(form, options...)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if *importPath != "" {
		data, err := os.ReadFile(*importPath)
		if err != nil {
			log.Fatalf("Failed to read import: %v", err)
		}
		if err := session.Import(data); err != nil {
			log.Printf("Import: %v", err)
		}
	}

	if *interactive {
		if err := session.Prompt(ctx, formkit.NewSurveyDriver()); err != nil {
			if errors.Is(err, formkit.ErrAborted) {
				os.Exit(130)
			}
			log.Fatalf("Prompt failed: %v", err)
		}
	}

	_, valid := session.Validate()

	values, err := session.Values()
	if err != nil {
		log.Fatalf("Failed to project values: %v", err)
	}
	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode values: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, append(out, '\n'), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Values written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}

	if !valid {
		lines, err := session.Messages()
		if err != nil {
			log.Fatalf("Failed to render errors: %v", err)
		}
		for _, line := range lines {
			fmt.Fprintf(os.Stderr, "error: %s\n", line)
		}
		os.Exit(1)
	}
}

// loadForm reports false after listing the operations of an OpenAPI
// document when no operation was named.
func loadForm(ctx context.Context, definitions, formID, openapiPath, opID string) (formkit.Form[string], bool) {
	switch {
	case strings.TrimSpace(openapiPath) != "":
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			log.Fatalf("Failed to read OpenAPI document: %v", err)
		}
		if opID == "" {
			ids, err := formkit.OpenAPIOperations(ctx, data)
			if err != nil {
				log.Fatalf("Failed to import OpenAPI document: %v", err)
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return formkit.Form[string]{}, false
		}
		form, err := formkit.LoadOpenAPI(ctx, data, opID)
		if err != nil {
			log.Fatalf("Failed to load operation: %v", err)
		}
		return form, true

	case strings.TrimSpace(definitions) != "":
		if formID == "" {
			log.Fatalf("-form is required with -definitions")
		}
		form, err := formkit.LoadFS(os.DirFS(definitions), formID)
		if err != nil {
			log.Fatalf("Failed to load form: %v", err)
		}
		return form, true

	default:
		log.Fatalf("one of -definitions or -openapi is required")
	}
	return formkit.Form[string]{}, false
}
