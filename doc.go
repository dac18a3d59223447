// Package main implements aocfetch, a CLI that downloads the daily Advent of
// Code puzzle input and scaffolds a folder for the day.
//
// # Features
//
//   - Waits for the scheduled release with a live countdown when the input
//     is not out yet
//   - Bounded retry with linear backoff against the input endpoint
//   - Session token from settings.ini, AOC_* environment variables or the
//     OS keyring
//   - Optional template folder copied into every new day
//
// # Usage
//
//	aocfetch [fetch] [--config settings.ini] [--dir .] [--template DIR] [--no-wait]
//	aocfetch eta [--release CRON]
//	aocfetch login [TOKEN]
//
// # Configuration
//
// settings.ini holds exactly three key=value lines:
//
//	session=<cookie value>
//	year=2021
//	day=3
//
// The day counter is advanced after every successful fetch.
package main
