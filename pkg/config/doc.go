/*
Package config holds the static description of a ctxmigrate run.

	            +-------------+
	            |   Default   |
	            | (built-in)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Names the target files, in the order they are processed
- Names the base directory and the ordered search directories
- Carries the signature rewrite and the whole-word token rewrites

🔄 Flow:
1. Start from Default
2. Layer an optional config file on top, unset fields keep their defaults
3. Validate and normalize paths

🔍 Example:

	cfg, err := config.LoadConfig(ctx, "ctxmigrate.yaml")
	if err != nil {
		return err
	}

An HCL file may refer to default_base_dir, default_search_dirs and
default_targets:

	base_dir = "src/Optimizers"
	targets  = default_targets

	token {
		from = "model"
		to   = "ctx.Model"
	}
*/
package config
