package ats

import "context"

// Renderer encodes a whole report into a single file.
type Renderer interface {
	Render(ctx context.Context, report Report) (FileResult, error)
}

// SectionRenderer encodes one section of a report.
type SectionRenderer interface {
	RenderSection(ctx context.Context, report Report, section Section) (FileResult, error)
}

// Bundler packages several rendered files into one archive.
type Bundler interface {
	Bundle(files []FileResult, name string) (FileResult, error)
}
