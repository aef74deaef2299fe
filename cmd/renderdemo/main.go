package main

// Render a resume to PDF and read it back:
//   go run ./cmd/renderdemo -out ./out/sample_resume.pdf
//   go run ./cmd/renderdemo -in resume.json

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-builder/resume/generation"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
	"resume-builder/resume/validate"
)

func main() {
	inPath := flag.String("in", "", "optional JSON ResumeDocument to render instead of the sample")
	outPath := flag.String("out", "", "output path for the generated PDF (defaults to ./out/<name>_Resume.pdf)")
	flag.Parse()

	doc := sampleDocument()
	if *inPath != "" {
		loaded, err := loadDocument(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read input failed: %v\n", err)
			os.Exit(1)
		}
		doc = loaded
	}
	doc.Normalize()

	for _, res := range validate.All(doc) {
		if f, ok := res.First(); ok {
			fmt.Fprintf(os.Stderr, "warning: %s: %s: %s\n", res.Step.Title(), f.Field, f.Message)
		}
	}

	pdfBytes, err := render.RenderPDF(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	target := *outPath
	if target == "" {
		target = filepath.Join("out", generation.FileName(doc.PersonalInfo.FullName))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(target, pdfBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	info, err := render.Inspect(pdfBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render validation failed: %v\n", err)
		os.Exit(1)
	}
	if info.Pages == 0 {
		fmt.Fprintf(os.Stderr, "render validation failed: no pages\n")
		os.Exit(1)
	}
	if !strings.Contains(info.Text, strings.Fields(doc.PersonalInfo.FullName)[0]) {
		fmt.Fprintf(os.Stderr, "warning: name not found in extracted text\n")
	}

	fmt.Printf("OK: wrote %s (%d pages, %d bytes)\n", target, info.Pages, info.Bytes)
}

func loadDocument(path string) (model.ResumeDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeDocument{}, err
	}
	var doc model.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.ResumeDocument{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

func sampleDocument() model.ResumeDocument {
	return model.ResumeDocument{
		PersonalInfo: model.PersonalInfo{
			FullName:        "Jordan Lee",
			Email:           "jordan.lee@example.com",
			Phone:           "+1-555-0102",
			GithubLink:      "https://github.com/jordanlee",
			LinkedinProfile: "https://www.linkedin.com/in/jordanlee",
		},
		Objective: "Backend engineer looking to build resilient APIs and data services for teams that ship often.",
		Education: []model.Education{{
			ID:          "edu-1",
			Degree:      "B.Tech Computer Science",
			Institution: "State Institute of Technology",
			GradeValue:  "8.7",
			GradeType:   model.GradeCGPA,
			StartDate:   "2014-08",
			EndDate:     "2018-05",
		}},
		Projects: []model.Project{{
			ID:          "project-1",
			Title:       "Route Planner",
			Description: "Shipment routing service with live traffic input.",
			TechStack:   []string{"Go", "PostgreSQL", "Redis"},
			GithubLink:  "https://github.com/jordanlee/route-planner",
		}},
		Experience: []model.Experience{
			{
				ID:        "exp-1",
				Role:      "Senior Backend Engineer",
				Company:   "Acme Logistics",
				StartDate: "2021-04",
				IsCurrent: true,
				Responsibilities: []string{
					"Designed a routing service that reduced shipment latency by 18%.",
					"Implemented distributed tracing to cut incident triage time by 35%.",
				},
			},
			{
				ID:               "exp-2",
				Role:             "Backend Engineer",
				Company:          "Blue Harbor Systems",
				StartDate:        "2018-06",
				EndDate:          "2021-03",
				Responsibilities: []string{"Built event-driven ingestion pipelines for compliance data feeds."},
			},
		},
		Skills: []string{"Go", "PostgreSQL", "AWS", "Docker", "Kubernetes"},
		Certifications: []model.Certification{{
			ID: "cert-1", Name: "AWS Certified Developer", Institution: "Amazon Web Services", Year: "2022",
		}},
	}
}
