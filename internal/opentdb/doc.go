// Package opentdb fetches multiple-choice trivia questions from the Open
// Trivia Database and normalizes them for display.
//
// A fetch builds the request URL, issues one GET, validates the response
// envelope, checks the provider response_code and HTML-decodes every text
// field. Failures are reported as *FetchError values whose Kind tells the
// caller what went wrong; nothing is cached and nothing is retried.
package opentdb
