// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan loads and runs YAML plans. A plan is a list of steps; each step
// runs inside its own directory switch, so commands see the step directory as
// their working directory and the previous one is restored before the next step.
//
//	name: build
//	steps:
//	  - name: show sources
//	    dir: ./code
//	    list: true
//	  - name: test
//	    dir: ./code
//	    command: ["go", "test", "./..."]
//	  - name: lint
//	    dir: ./code
//	    shell: golangci-lint run
//	    continue_on_error: true
package plan
