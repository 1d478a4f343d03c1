// Package loader turns files on disk into core.Documents.
//
// PDFLoader extracts one text entry per page using the langchaingo PDF
// document loader. Scan lists the files a pipeline should visit.
package loader
