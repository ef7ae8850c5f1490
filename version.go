package main

// Version is the current application version.
const Version = "1.0.0"
