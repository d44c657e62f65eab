package tools

import "github.com/bnema/mcp-docker/internal/mcp"

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func boolean(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func stringList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func containerSchema() map[string]any {
	return object(map[string]any{
		"name":        str("Container name"),
		"image":       str("Image name (e.g., nginx:latest)"),
		"projectName": str("Project name for grouping containers"),
		"env":         stringList(`Environment variables (e.g., ["KEY=value"])`),
		"ports": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"container": integer("Container port"),
				"host":      integer("Host port"),
			}, "container", "host"),
			"description": "Port mappings",
		},
		"volumes": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"source": str("Source path or volume name"),
				"target": str("Target path in container"),
			}, "source", "target"),
			"description": "Volume mappings",
		},
		"cmd":         stringList("Command to run in the container"),
		"networkMode": str("Network mode (e.g., bridge, host, none)"),
		"restart": map[string]any{
			"type":        "string",
			"enum":        []string{"no", "always", "unless-stopped", "on-failure"},
			"description": "Restart policy (e.g., no, always, on-failure)",
		},
	}, "name", "image")
}

func tool(name, desc string, schema map[string]any, run runFunc) toolDef {
	return toolDef{
		tool: mcp.Tool{Name: name, Description: desc, InputSchema: schema},
		run:  run,
	}
}

func catalog() []toolDef {
	containerID := func(desc string) map[string]any {
		return object(map[string]any{"containerId": str(desc)}, "containerId")
	}

	return []toolDef{
		// Containers
		tool("list_containers", "List all Docker containers",
			object(map[string]any{"projectName": str("Filter containers by project name")}),
			handle(listContainers)),
		tool("create_container", "Create a new Docker container without starting it",
			containerSchema(), handle(createContainer)),
		tool("run_container", "Create and start a new Docker container",
			containerSchema(), handle(runContainer)),
		tool("recreate_container", "Recreate a Docker container with the same or updated configuration",
			object(map[string]any{
				"containerId": str("Container ID or name"),
				"image":       str("New image name (optional)"),
				"env":         stringList("New environment variables (optional)"),
				"cmd":         stringList("New command (optional)"),
			}, "containerId"),
			handle(recreateContainer)),
		tool("start_container", "Start a Docker container",
			containerID("Container ID or name"), handle(startContainer)),
		tool("fetch_container_logs", "Fetch logs from a Docker container",
			object(map[string]any{
				"containerId": str("Container ID or name"),
				"tail":        integer("Number of lines to fetch from the end (default 100)"),
			}, "containerId"),
			handle(fetchContainerLogs)),
		tool("stop_container", "Stop a Docker container",
			containerID("Container ID or name"), handle(stopContainer)),
		tool("remove_container", "Remove a Docker container",
			object(map[string]any{
				"containerId": str("Container ID or name"),
				"force":       boolean("Force removal of running container"),
			}, "containerId"),
			handle(removeContainer)),

		// Images
		tool("list_images", "List all Docker images", object(map[string]any{}), handle(listImages)),
		tool("pull_image", "Pull a Docker image from a registry",
			object(map[string]any{"imageName": str("Image name to pull (e.g., nginx:latest)")}, "imageName"),
			handle(pullImage)),
		tool("push_image", "Push a Docker image to a registry",
			object(map[string]any{"imageName": str("Image name to push")}, "imageName"),
			handle(pushImage)),
		tool("build_image", "Build a Docker image from a Dockerfile",
			object(map[string]any{
				"tarContext": str("Path to tar file containing build context"),
				"tag":        str("Tag for the built image"),
				"dockerfile": str("Path to Dockerfile (relative to context)"),
			}, "tarContext", "tag"),
			handle(buildImage)),
		tool("remove_image", "Remove a Docker image",
			object(map[string]any{
				"imageId": str("Image ID or name"),
				"force":   boolean("Force removal of the image"),
			}, "imageId"),
			handle(removeImage)),

		// Networks
		tool("list_networks", "List all Docker networks", object(map[string]any{}), handle(listNetworks)),
		tool("create_network", "Create a Docker network",
			object(map[string]any{
				"name":     str("Network name"),
				"driver":   str("Network driver (e.g., bridge, overlay)"),
				"internal": boolean("Restrict external access to the network"),
			}, "name"),
			handle(createNetwork)),
		tool("remove_network", "Remove a Docker network",
			object(map[string]any{"networkId": str("Network ID or name")}, "networkId"),
			handle(removeNetwork)),

		// Volumes
		tool("list_volumes", "List all Docker volumes", object(map[string]any{}), handle(listVolumes)),
		tool("create_volume", "Create a Docker volume",
			object(map[string]any{
				"name":   str("Volume name"),
				"driver": str("Volume driver"),
				"labels": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
					"description":          "Volume labels",
				},
			}, "name"),
			handle(createVolume)),
		tool("remove_volume", "Remove a Docker volume",
			object(map[string]any{
				"name":  str("Volume name"),
				"force": boolean("Force removal of the volume"),
			}, "name"),
			handle(removeVolume)),
	}
}
