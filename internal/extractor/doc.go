// Package extractor fetches product web pages and derives structured
// content from them: title, description, body text, candidate tags and
// identity meta tags. Parsing is regex based; product landing pages are
// shallow enough that a full DOM is unnecessary.
package extractor
