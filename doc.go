// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package main runs the Terraform Provider for Git forges (GitLab).
//
// The main package wires the provider address and debug flag and starts
// the Terraform Plugin Framework server. Use the -debug flag to launch
// the provider in debug mode for tools like Delve.
package main
