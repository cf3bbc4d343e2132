// Package kbcrawl extracts article content from websites into knowledge
// bases. It renders pages in a headless browser, discovers same-site links,
// walks them under a page budget, picks title, body, author, date and tags
// with a cascade of CSS selectors, and converts the body to Markdown.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package kbcrawl
