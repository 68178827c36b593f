// Package sheet converts between xlsx workbooks and the bridge's data model:
// extracting submission URLs from an uploaded workbook and materializing
// job results (or the static import template) as a downloadable workbook.
package sheet
