package muxsup

// Version is the current version of the go-muxsup library
const Version = "1.0.0"
