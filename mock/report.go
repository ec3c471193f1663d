package mock

import "github.com/fwojciec/mergeguard"

// Compile-time interface verification.
var (
	_ mergeguard.ReportWriter  = (*ReportWriter)(nil)
	_ mergeguard.ResultSaver   = (*ResultSaver)(nil)
	_ mergeguard.StatusPrinter = (*StatusPrinter)(nil)
)

// ReportWriter is a mock implementation of mergeguard.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(content string) error
}

func (w *ReportWriter) WriteReport(content string) error {
	return w.WriteReportFn(content)
}

// ResultSaver is a mock implementation of mergeguard.ResultSaver.
type ResultSaver struct {
	SaveFn func(report *mergeguard.Report) error
}

func (s *ResultSaver) Save(report *mergeguard.Report) error {
	return s.SaveFn(report)
}

// StatusPrinter is a mock implementation of mergeguard.StatusPrinter.
type StatusPrinter struct {
	PrintReportFn  func(report *mergeguard.Report)
	PrintFailureFn func(err error)
}

func (p *StatusPrinter) PrintReport(report *mergeguard.Report) {
	p.PrintReportFn(report)
}

func (p *StatusPrinter) PrintFailure(err error) {
	p.PrintFailureFn(err)
}
