package mcpserver

// FormatsContract describes the text projections juv renders and the
// inline metadata block it reads, for LLM consumers of the tools.
const FormatsContract = `# juv Notebook Formats

juv reads Jupyter notebooks (nbformat 4, older v3 files are upgraded in
memory) and renders them as plain text. Rendering never changes the file.

## Script projection (` + "`format: script`" + `)

Each cell starts with a marker line. Cells are separated by one blank line.

` + "```" + `python
# %%
import polars as pl

# %% [markdown]
# ## Load data
# Markdown lines are prefixed with "# ".

# %% [raw]
# raw cells are prefixed the same way
` + "```" + `

## Markdown projection (` + "`format: markdown`" + `)

Code cells become fenced python blocks, raw cells become unlabeled fences and
Markdown cells are emitted verbatim.

` + "````" + `markdown
` + "```" + `python
import polars as pl
` + "```" + `

## Load data
` + "````" + `

## Inline metadata

Dependencies live in a comment block inside a code cell, usually the first
(hidden) cell created by ` + "`juv init`" + `:

` + "```" + `python
# /// script
# requires-python = ">=3.12"
# dependencies = ["polars"]
# ///
` + "```" + `

The first block found, scanning code cells in order, is the one used by
` + "`notebook_info`" + ` and ` + "`prepare_run_script`" + `.

## Runtimes

` + "`prepare_run_script`" + ` accepts ` + "`lab`" + ` (default), ` + "`notebook`" + ` or ` + "`nbclassic`" + `,
optionally pinned with ` + "`@version`" + ` or ` + "`==version`" + `, e.g. ` + "`notebook@6.4`" + `.
`
