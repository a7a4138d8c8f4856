package main

// Command descriptions
const (
	MsgRootShort = "Keep projects in sync with the templates that created them"
	MsgRootLong  = `microsync links a project to the template repository it was generated
from and keeps the two in sync: it can show what changed in the template,
what the project changed locally, and apply template updates to the
project as a single commit.`

	MsgInitShort = "Create a new project from a template"
	MsgInitLong  = `Init clones the template, prompts for its variables, renders it into a
new directory, and writes the linkage record that later operations use.`

	MsgLinkShort = "Link an existing project to a template"
	MsgLinkLong  = `Link writes a linkage record into an existing project directory without
rendering or modifying anything else.`

	MsgStatusShort = "Report whether the project is up to date with its template"
	MsgStatusLong  = `Status compares the recorded template reference with the template's
latest. When they differ it lists the files whose rendered content
changed between the two.`

	MsgDiffShort = "Show the rendered changes a sync would apply"
	MsgDiffLong  = `Diff renders the template at the recorded reference and at a target
reference (latest by default) with the project's variables and prints
the unified diff between the two renders.`

	MsgDriftShort = "Show how the project diverged from its template"
	MsgDriftLong  = `Drift renders the template at the recorded reference and diffs it
against the live project, restricted to the files the template manages.`

	MsgSyncShort = "Apply the template's latest changes to the project"
	MsgSyncLong  = `Sync computes the rendered diff between the recorded and latest template
references and applies it to the project repository as a single commit.
The project tree must be clean; the linkage record advances only after
the commit exists.`

	MsgUnlinkShort = "Detach the project from its template"
	MsgUnlinkLong  = `Unlink removes the linkage record. No other project file is touched.`
)
