package scaffold

import (
	"fmt"

	interrors "github.com/devstrap/devstrap/internal/errors"
)

// fileTemplate is one (relative path, content) pair in a template set.
// Content is a text/template body with access to templateData.
type fileTemplate struct {
	path    string
	content string
}

func templatesFor(kind Kind) ([]fileTemplate, error) {
	switch kind {
	case KindRAG:
		return ragTemplates, nil
	case KindAgent:
		return agentTemplates, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", interrors.ErrUnknownTemplate, kind)
	}
}

var ragTemplates = []fileTemplate{
	{
		path: "app/main.py",
		content: `#!/usr/bin/env python3
"""{{.Project}} RAG service entrypoint.

Answers questions over the local document store using a DeepSeek chat model.
Requires DEEPSEEK_API_KEY in the environment (see devstrap export).
"""

import os
import sys

import requests

API_BASE = os.environ.get("DEEPSEEK_API_BASE", "https://api.deepseek.com")
MODEL = os.environ.get("DEEPSEEK_MODEL", "deepseek-chat")
DOCS_DIR = os.environ.get("{{.Project}}_DOCS_DIR".upper().replace("-", "_"), "data/docs")


def retrieve(query: str, limit: int = 4) -> list[str]:
    """Naive keyword retrieval over text files in DOCS_DIR."""
    matches = []
    if not os.path.isdir(DOCS_DIR):
        return matches
    terms = {t.lower() for t in query.split()}
    for name in sorted(os.listdir(DOCS_DIR)):
        path = os.path.join(DOCS_DIR, name)
        if not os.path.isfile(path):
            continue
        with open(path, encoding="utf-8", errors="ignore") as f:
            text = f.read()
        if terms & {t.lower() for t in text.split()}:
            matches.append(text[:2000])
        if len(matches) >= limit:
            break
    return matches


def answer(query: str) -> str:
    api_key = os.environ.get("DEEPSEEK_API_KEY")
    if not api_key:
        raise SystemExit("DEEPSEEK_API_KEY is not set")

    context = "\n---\n".join(retrieve(query))
    messages = [
        {"role": "system", "content": "Answer using only the provided context."},
        {"role": "user", "content": f"Context:\n{context}\n\nQuestion: {query}"},
    ]
    response = requests.post(
        f"{API_BASE}/v1/chat/completions",
        headers={"Authorization": f"Bearer {api_key}"},
        json={"model": MODEL, "messages": messages, "max_tokens": 500},
        timeout=60,
    )
    response.raise_for_status()
    return response.json()["choices"][0]["message"]["content"]


if __name__ == "__main__":
    question = " ".join(sys.argv[1:]) or "What does this project do?"
    print(answer(question))
`,
	},
	{
		path: "app/client.py",
		content: `#!/usr/bin/env python3
"""Minimal client for the {{.Project}} RAG service."""

import sys

from main import answer

if __name__ == "__main__":
    query = " ".join(sys.argv[1:])
    if not query:
        raise SystemExit("usage: client.py <question>")
    print(answer(query))
`,
	},
	{
		path: "requirements.txt",
		content: `requests>=2.31
numpy>=1.26
`,
	},
	{
		path: "README.md",
		content: `# {{.Project}}

RAG example scaffolded by devstrap. Put source documents under ` + "`data/docs/`" + `,
export credentials with ` + "`devstrap export`" + `, then:

    docker compose run --rm app python app/main.py "your question"
`,
	},
	{
		path:    "data/docs/.gitkeep",
		content: ``,
	},
}

var agentTemplates = []fileTemplate{
	{
		path: "app/agent.py",
		content: `#!/usr/bin/env python3
"""{{.Project}} analysis agent entrypoint.

Runs a tool-use loop against a DeepSeek chat model. Requires
DEEPSEEK_API_KEY in the environment (see devstrap export).
"""

import json
import os
import sys

import requests

from tools import TOOLS, run_tool

API_BASE = os.environ.get("DEEPSEEK_API_BASE", "https://api.deepseek.com")
MODEL = os.environ.get("DEEPSEEK_MODEL", "deepseek-chat")
MAX_STEPS = 8


def step(messages: list[dict]) -> dict:
    api_key = os.environ.get("DEEPSEEK_API_KEY")
    if not api_key:
        raise SystemExit("DEEPSEEK_API_KEY is not set")

    response = requests.post(
        f"{API_BASE}/v1/chat/completions",
        headers={"Authorization": f"Bearer {api_key}"},
        json={"model": MODEL, "messages": messages, "tools": TOOLS, "max_tokens": 500},
        timeout=60,
    )
    response.raise_for_status()
    return response.json()["choices"][0]["message"]


def run(task: str) -> str:
    messages = [
        {"role": "system", "content": "You are an analysis agent. Use tools when helpful."},
        {"role": "user", "content": task},
    ]
    for _ in range(MAX_STEPS):
        message = step(messages)
        messages.append(message)
        calls = message.get("tool_calls") or []
        if not calls:
            return message.get("content", "")
        for call in calls:
            result = run_tool(call["function"]["name"], json.loads(call["function"]["arguments"]))
            messages.append({
                "role": "tool",
                "tool_call_id": call["id"],
                "content": json.dumps(result),
            })
    return "agent stopped: step limit reached"


if __name__ == "__main__":
    print(run(" ".join(sys.argv[1:]) or "Summarize the latest market data."))
`,
	},
	{
		path: "app/tools.py",
		content: `"""Tool definitions for the {{.Project}} agent."""

import statistics

TOOLS = [
    {
        "type": "function",
        "function": {
            "name": "summarize_series",
            "description": "Compute mean, min, max and stdev of a numeric series.",
            "parameters": {
                "type": "object",
                "properties": {
                    "values": {"type": "array", "items": {"type": "number"}},
                },
                "required": ["values"],
            },
        },
    },
]


def run_tool(name: str, arguments: dict) -> dict:
    if name == "summarize_series":
        values = arguments.get("values", [])
        if not values:
            return {"error": "empty series"}
        return {
            "mean": statistics.fmean(values),
            "min": min(values),
            "max": max(values),
            "stdev": statistics.pstdev(values),
        }
    return {"error": f"unknown tool: {name}"}
`,
	},
	{
		path: "requirements.txt",
		content: `requests>=2.31
pandas>=2.1
`,
	},
	{
		path: "README.md",
		content: `# {{.Project}}

Agent example scaffolded by devstrap. Export credentials with
` + "`devstrap export`" + `, then:

    docker compose run --rm app python app/agent.py "your task"
`,
	},
}
