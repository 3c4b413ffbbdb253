// Package main hosts the asciivid CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into preview
// renders, text and video exports, history maintenance, and configuration
// scaffolding. It centralizes configuration resolution, logger setup and
// store lifetime so subcommands can focus on what they print.
//
// Keep this package lean: conversion, encoding and persistence live in the
// internal packages; commands here only parse flags, call them and render.
package main
