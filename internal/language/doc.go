// Package language maps the language labels seen on subtitle candidates and
// media streams onto ISO 639-1 codes.
//
// The subtitle index labels entries with Chinese names ("英语", "简体") while
// users and ffprobe speak ISO codes or English words; everything resolves to
// the same two letter code so filters can compare across conventions.
package language
