package rod

// HTML fixtures served by httptest in adapter tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	InteractiveHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btn" style="opacity:0.01">Click Me</button>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	SpinnerHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="spinner">Loading...</div>
	<div id="gone" style="display:none">Hidden</div>
	<button id="late" disabled>Continue</button>
	<script>
		setTimeout(function() {
			document.getElementById('spinner').style.display = 'none';
			document.getElementById('late').disabled = false;
		}, 300);
	</script>
</body>
</html>`

	SelectHTML = `<!DOCTYPE html>
<html>
<body>
	<select id="role">
		<option value="admin">Admin</option>
		<option value="editor">Editor</option>
		<option value="viewer">Viewer</option>
	</select>
	<div id="changed"></div>
	<script>
		document.getElementById('role').addEventListener('change', function(e) {
			document.getElementById('changed').textContent = e.target.value;
		});
	</script>
</body>
</html>`
)
