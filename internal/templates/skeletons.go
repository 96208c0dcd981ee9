package templates

// Skeleton bodies. These are scaffolding, not generated prose: every
// section carries a short instruction so the author (human or AI) knows
// what belongs there.

const prdSkeleton = `# {{.Title}} — Product Requirements Document

## Executive Summary

_One or two paragraphs: what is this product and why does it matter now?_

## Product Objectives

_2-4 measurable objectives. Each should state the outcome, not the feature._

1. Objective:
2. Objective:

## User Personas

_Describe 2-3 concrete personas: role, daily frustration, goal._

### Persona 1

- Role:
- Frustration:
- Goal:

## Features

_The capabilities needed to reach the objectives. One heading per feature._

### Feature 1

- Description:
- Persona served:

## Success Metrics

_How will you know the objectives were met? Numbers, not adjectives._

## Out of Scope

_3-5 explicit exclusions. Boundaries prevent scope creep later._

## Open Questions

_Unknowns to resolve before the requirements phase._
`

const requirementsSkeleton = `# {{.Title}} — Requirements

## Introduction

_Context: which PRD this derives from and what it covers._

## Functional Requirements

_One entry per requirement. Unique IDs (FR-001), one interpretation only,
each verifiable with a concrete condition._

### FR-001

- Statement: The system shall ...
- Priority: must | should | could
- Acceptance: ...

## Non-Functional Requirements

_Performance, security, reliability. Unique IDs (NFR-001), with numbers._

### NFR-001

- Statement:
- Measure:

## Acceptance Criteria

_Cross-cutting criteria for declaring this phase done._

## Glossary

_Every domain term gets exactly one meaning._
`

const designSkeleton = `# {{.Title}} — Design

## Overview

_What this design covers and which requirements it addresses._

## Architecture

_Major components and how they talk to each other._

## Components

_One section per component: responsibility, interface, collaborators._

### Component 1

- Responsibility:
- Interface:
- Depends on:

## Data Model

_Entities, fields, relationships, ownership._

## Error Handling

_Failure modes and how each surfaces to the caller._

## Testing Strategy

_What gets unit tests, what gets integration tests, what gets neither and why._
`

const tasksSkeleton = `# {{.Title}} — Implementation Tasks

## Overview

_Which design this implements; link each task back to a requirement._

## Task Breakdown

_Atomic tasks with unique IDs. Each names its scope, the component it
touches, and its acceptance criteria._

### TASK-001

- Scope:
- Component:
- Covers: FR-
- Acceptance:

## Dependencies

_Which tasks block which. Tasks with no dependencies can start immediately._

## Execution Order

_Group independent tasks so they can proceed in parallel._
`

// checklists lists the completion criteria per document type. Rendered as
// markdown task lists by Renderer.Checklist.
var checklists = map[DocType][]string{
	DocPRD: {
		"Executive summary states the problem and the product in plain language",
		"Every objective is measurable",
		"At least two personas with concrete frustrations and goals",
		"Every feature maps to a persona and an objective",
		"Out-of-scope section has explicit exclusions",
		"Open questions are listed, not buried in prose",
	},
	DocRequirements: {
		"Every requirement has a unique ID (FR-xxx / NFR-xxx)",
		"Each requirement has exactly one interpretation",
		"Each requirement is verifiable with a concrete condition",
		"Priorities assigned (must/should/could)",
		"Non-functional requirements carry numbers, not adjectives",
		"Glossary defines every domain term once",
	},
	DocDesign: {
		"Every requirement is addressed by at least one component",
		"Component responsibilities do not overlap",
		"Data model covers every entity the requirements name",
		"Each failure mode has a defined surface behavior",
		"Testing strategy names what is deliberately untested",
	},
	DocTasks: {
		"Every task has a unique ID and traces to a requirement",
		"Tasks are atomic: one component, one concern",
		"Dependency graph has no cycles",
		"Independent tasks are grouped for parallel execution",
		"Each task has acceptance criteria",
	},
}
