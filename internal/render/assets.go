package render

const styleSheet = `
    <style>
        * { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; }
        body { max-width: 1400px; margin: 0 auto; padding: 20px; font-size: 14px; background: #fafafa; color: #222; }
        .viz-header { display: flex; justify-content: space-between; align-items: baseline; flex-wrap: wrap; }
        .viz-header nav a { margin-left: 12px; color: #5096d7; text-decoration: none; }
        .viz-block { margin: 16px 0; padding: 16px; border-radius: 8px; background: #fff; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
        .viz-error { border-left: 4px solid #ea4335; color: #a50e0e; }
        .viz-empty { color: #777; text-align: center; }
        .viz-detail { font-size: 12px; color: #888; }
        .viz-stats { display: flex; gap: 16px; flex-wrap: wrap; }
        .viz-card { flex: 1 1 200px; border-top: 4px solid; padding: 12px; background: #fff; border-radius: 6px; }
        .viz-card-value { font-size: 28px; font-weight: 600; }
        .viz-card-label { color: #666; }
        .viz-axis-info { margin: 8px 0; color: #555; }
        .viz-legend { display: flex; gap: 14px; margin-bottom: 8px; }
        .legend-item { display: flex; align-items: center; gap: 6px; }
        .color-box { width: 12px; height: 12px; border: 1px solid #333; }
        .viz-overlay { position: fixed; pointer-events: none; background: rgba(0,0,0,.85); color: #fff; padding: 8px 10px; border-radius: 4px; font-size: 12px; z-index: 10; }
        .viz-overlay span { color: #aaa; }
        .viz-selector { display: inline-block; margin: 8px 0; }
        .viz-index td, .viz-index th { padding: 4px 12px; text-align: left; }
    </style>
`

const overlayElement = `<div id="viz-overlay" class="viz-overlay" hidden></div>
`

// hoverScript forwards chart events to the interaction API and mirrors the
// answers in the page.
const hoverScript = `<script type="text/javascript">
(function () {
    var targets = {"viz-pue-timeline": "timeline", "viz-pue-sites": "sites", "viz-server-scatter": "servers", "viz-chip-cloud": "cloud"};
    var overlay = document.getElementById('viz-overlay');
    var lastX = 0, lastY = 0;
    document.addEventListener('mousemove', function (e) {
        lastX = e.clientX; lastY = e.clientY;
        if (!overlay.hidden) { overlay.style.left = (lastX + 14) + 'px'; overlay.style.top = (lastY + 14) + 'px'; }
    });
    function show(html) {
        overlay.innerHTML = html;
        overlay.style.left = (lastX + 14) + 'px';
        overlay.style.top = (lastY + 14) + 'px';
        overlay.hidden = false;
        document.body.style.cursor = 'pointer';
    }
    function hide() {
        overlay.hidden = true;
        document.body.style.cursor = 'default';
        fetch('/api/hover', {method: 'DELETE'});
    }
    function bind(el, target, params) {
        if (!el || typeof echarts === 'undefined') return;
        var chart = echarts.getInstanceByDom(el);
        if (!chart) return;
        chart.on('mouseover', function (p) {
            if (p.seriesIndex !== 0 && target !== 'servers') return;
            fetch('/api/hover?target=' + target + '&index=' + p.dataIndex + params())
                .then(function (r) { return r.ok ? r.json() : null; })
                .then(function (o) { if (o && o.html) { show(o.html); } else { hide(); } });
        });
        chart.on('mouseout', hide);
    }
    window.addEventListener('load', function () {
        var legend = document.querySelector('.viz-legend[data-view]');
        var sel = document.getElementById('yearSelector');
        Object.keys(targets).forEach(function (id) {
            bind(document.getElementById(id), targets[id], function () {
                if (targets[id] === 'cloud' && legend) return '&view=' + legend.getAttribute('data-view');
                if (targets[id] === 'sites' && sel) return '&year=' + sel.value;
                return '';
            });
        });
        document.querySelectorAll('[id^="viz-pue-sites-"]').forEach(function (el) {
            var year = el.id.slice('viz-pue-sites-'.length);
            bind(el, 'sites', function () { return '&year=' + year; });
        });

        if (!sel) return;
        sel.addEventListener('change', function () {
            fetch('/api/sites?year=' + sel.value, {method: 'POST'})
                .then(function (r) { return r.json(); })
                .then(function (o) {
                    var chart = echarts.getInstanceByDom(document.getElementById('viz-pue-sites'));
                    if (!chart || !o.sites) return;
                    var s = o.sites;
                    chart.setOption({
                        title: {text: 'PUE par site (' + s.year + ')'},
                        xAxis: [{data: s.sites.map(function (d) { return d.site; })}],
                        series: [{
                            data: s.sites.map(function (d) { return {name: d.site + ' (' + d.country + ')', value: Math.round(d.pue * 100) / 100}; }),
                            markLine: {data: [{name: 'Moy: ' + s.mean.toFixed(2), yAxis: Math.round(s.mean * 100) / 100}]}
                        }]
                    });
                });
        });
    });
})();
</script>
`
