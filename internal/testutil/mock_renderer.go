package testutil

import (
	"context"

	"3tcapital/sriats/internal/core/ats"
)

// MockRenderer is a mock implementation of ats.Renderer and ats.SectionRenderer.
type MockRenderer struct {
	RenderFunc        func(ctx context.Context, report ats.Report) (ats.FileResult, error)
	RenderSectionFunc func(ctx context.Context, report ats.Report, section ats.Section) (ats.FileResult, error)
}

// Render calls the mock function if set, otherwise returns an empty file.
func (m *MockRenderer) Render(ctx context.Context, report ats.Report) (ats.FileResult, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, report)
	}
	return ats.FileResult{Filename: "ATS_" + report.Periodo}, nil
}

// RenderSection calls the mock function if set, otherwise names the file after the section.
func (m *MockRenderer) RenderSection(ctx context.Context, report ats.Report, section ats.Section) (ats.FileResult, error) {
	if m.RenderSectionFunc != nil {
		return m.RenderSectionFunc(ctx, report, section)
	}
	return ats.FileResult{
		Content:  []byte(section),
		Filename: "ATS_" + report.Periodo + "_" + string(section) + ".csv",
		MimeType: "text/csv;charset=utf-8",
	}, nil
}

// MockBundler is a mock implementation of ats.Bundler.
type MockBundler struct {
	BundleFunc func(files []ats.FileResult, name string) (ats.FileResult, error)
}

// Bundle calls the mock function if set, otherwise concatenates the filenames.
func (m *MockBundler) Bundle(files []ats.FileResult, name string) (ats.FileResult, error) {
	if m.BundleFunc != nil {
		return m.BundleFunc(files, name)
	}
	var content []byte
	for _, f := range files {
		content = append(content, f.Filename+"\n"...)
	}
	return ats.FileResult{Content: content, Filename: name, MimeType: "application/zip"}, nil
}
