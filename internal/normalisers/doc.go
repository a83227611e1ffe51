// Package normalisers holds the source normalisers. Each turns one raw
// source type (a website, a chat export) into records that meet that
// source's minimum word count.
package normalisers
